// Package storage provides persistence for exported trailers.
// It defines the Storage interface (port) and implementations for local
// disk and S3.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInvalidKey is returned when a key is empty or tries to escape its namespace.
var ErrInvalidKey = errors.New("storage: invalid key")

// Storage defines the interface for storing exported documents.
type Storage interface {
	// Put stores data under key and returns a location the user can follow:
	// a file path for local storage, a URL for S3.
	Put(ctx context.Context, key string, data io.Reader) (location string, err error)
}

// validateKey rejects keys that are empty or contain path separators or
// parent references.
func validateKey(key string) error {
	if key == "" || key == "." || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
