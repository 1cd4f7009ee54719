// Package imaging shrinks oversized review photos before they are stored.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const jpegQuality = 85

// Fit returns data scaled down so neither side exceeds maxDim, preserving
// aspect ratio and format. Images already within bounds, formats that cannot
// be re-encoded (WebP) and a non-positive maxDim return data unchanged.
func Fit(data []byte, mimeType string, maxDim int) ([]byte, error) {
	if maxDim <= 0 || !reencodable(mimeType) {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, scaled)
	case "image/gif":
		err = gif.Encode(&buf, scaled, nil)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func reencodable(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
