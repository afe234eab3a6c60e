package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

// LocalStorage implements the Storage interface using a local directory.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a new LocalStorage instance.
// If dir is empty, a "trailerforge" directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "trailerforge")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

// Dir returns the export directory path.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Put writes data to <dir>/<key> and returns the file path.
// The file is written to a temporary name first and renamed into place.
func (s *LocalStorage) Put(ctx context.Context, key string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if err := validateKey(key); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.dir, "."+key+"_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write export file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close export file: %w", err)
	}

	dest := filepath.Join(s.dir, key)
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("move export file: %w", err)
	}

	return dest, nil
}
