package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")
var ErrInvalidPath = errors.New("invalid file path")

// FileStorage stores generated documents under the media root.
type FileStorage interface {
	// Save writes content at path and returns the cleaned relative path.
	Save(ctx context.Context, path string, content io.Reader) (string, error)

	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// URL returns the public URL for a stored file.
	URL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
