// Package storage provides object storage backends for uploaded files
// (expense receipts and branding logos).
package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrEmptyKey    = errors.New("storage key is required")
	ErrEmptyData   = errors.New("file data is empty")
	ErrKeyTraversal = errors.New("storage key must not contain path traversal")
)

// FileStorage stores uploaded files and returns publicly reachable URLs
type FileStorage interface {
	// Upload stores the data under the given key and returns the public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes a stored file. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a file is stored under the key
	Exists(ctx context.Context, key string) (bool, error)
}
