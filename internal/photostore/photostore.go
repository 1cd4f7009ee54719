package photostore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get and Delete when no object exists for a key.
var ErrNotFound = errors.New("photo not found")

// PhotoStore persists review photo bytes. Keys are opaque to callers.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}

// ExtForMIME returns the file extension used for a stored image of mimeType.
func ExtForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
