package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Disk is a local-filesystem implementation of Storage.
// All blobs live directly under a single base directory.
type Disk struct {
	baseDir string
}

var _ Storage = (*Disk)(nil)

// NewDisk creates the base directory if needed and returns a Disk store.
func NewDisk(baseDir string) (*Disk, error) {
	if baseDir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Disk{baseDir: baseDir}, nil
}

// resolve rejects names that could escape the base directory.
func (d *Disk) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid blob name %q", name)
	}
	return filepath.Join(d.baseDir, name), nil
}

func (d *Disk) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	path, err := d.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// O_EXCL: generated names must never be overwritten.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create blob: %w", err)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("close blob: %w", err)
	}
	return n, nil
}

func (d *Disk) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (d *Disk) Delete(ctx context.Context, name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
