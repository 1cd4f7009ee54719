package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitShrinksLargeImage(t *testing.T) {
	data := encodePNG(t, 400, 200)

	out, err := Fit(data, "image/png", 100)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestFitKeepsJPEGFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	out, err := Fit(buf.Bytes(), "image/jpeg", 150)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 150, cfg.Width)
}

func TestFitLeavesSmallImageUntouched(t *testing.T) {
	data := encodePNG(t, 50, 40)

	out, err := Fit(data, "image/png", 100)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFitPassesThroughWebP(t *testing.T) {
	data := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...)

	out, err := Fit(data, "image/webp", 100)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestFitRejectsCorruptImage(t *testing.T) {
	_, err := Fit([]byte{0xFF, 0xD8, 0x00}, "image/jpeg", 100)
	assert.Error(t, err)
}
