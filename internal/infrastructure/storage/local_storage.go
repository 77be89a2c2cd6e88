package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	infraconfig "github.com/kyber/backend/internal/infrastructure/config"
)

// Ensure LocalStorage implements FileStorage
var _ FileStorage = (*LocalStorage)(nil)

// LocalStorage implements FileStorage on the local filesystem. Files are
// written under the configured base directory and served by the HTTP
// server's static /uploads route.
type LocalStorage struct {
	baseDir   string
	publicURL string
	logger    *zap.Logger
}

// NewLocalStorage creates a LocalStorage rooted at the configured directory
func NewLocalStorage(cfg *infraconfig.StorageConfig, logger *zap.Logger) (*LocalStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.LocalDir, err)
	}

	return &LocalStorage{
		baseDir:   cfg.LocalDir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload stores the data under the given key and returns the public URL
func (l *LocalStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyData
	}

	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}

	l.logger.Debug("stored local file", zap.String("key", key), zap.Int("bytes", len(data)))
	return l.publicURL + "/" + key, nil
}

// Delete removes a stored file. Deleting a missing key is not an error.
func (l *LocalStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a file is stored under the key
func (l *LocalStorage) Exists(_ context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file %s: %w", key, err)
	}
	return true, nil
}

// BaseDir returns the root directory files are stored under
func (l *LocalStorage) BaseDir() string {
	return l.baseDir
}
