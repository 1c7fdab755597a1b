package storage

import (
	"context"
	"errors"
	"io"
)

// Package storage contains blob storage abstractions for uploaded file content.
// Methods use context and streaming readers; callers never see backend paths.

// ErrNotExist is returned by Get and Delete when the named blob is absent.
var ErrNotExist = errors.New("blob does not exist")

// Storage stores raw uploaded bytes under server-generated names.
// Names are flat (no directory separators); the backend owns the layout.
type Storage interface {
	// Put writes the blob under the given name and returns the number of bytes written.
	// The name must not already exist.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)
	// Get opens the blob for streaming reads.
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes the blob by name.
	Delete(ctx context.Context, name string) error
}
