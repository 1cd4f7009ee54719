package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/travelwish/internal/photostore"
)

type fakeObject struct {
	data        []byte
	contentType string
}

// fakeS3 is a path-style S3 endpoint supporting just PUT, GET and DELETE on
// objects.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.objects[path] = fakeObject{data: data, contentType: r.Header.Get("Content-Type")}
		w.Header().Set("ETag", `"fake-etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		_, _ = w.Write(obj.data)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*S3PhotoStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string]fakeObject)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3PhotoStore(Config{
		Bucket:    "trip-photos",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewS3PhotoStore_RequiresBucket(t *testing.T) {
	_, err := NewS3PhotoStore(Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3PhotoStoreSaveAndGet(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()
	imageData := []byte("fake jpeg data")

	key, err := store.Save(ctx, "place_7", "image/jpeg", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "place_7_"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Contains(t, fake.objects, "trip-photos/"+key)

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/jpeg", mimeType)
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestS3PhotoStoreGet_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.Get(context.Background(), "missing.jpg")
	assert.ErrorIs(t, err, photostore.ErrNotFound)
}

func TestS3PhotoStoreDelete(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "place_7", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))
	assert.NotContains(t, fake.objects, "trip-photos/"+key)

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, photostore.ErrNotFound)
}
