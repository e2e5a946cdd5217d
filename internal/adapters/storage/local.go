// internal/adapters/storage/local.go
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// LocalStorage keeps files on the local filesystem. Used when no bucket is
// configured.
type LocalStorage struct {
	basePath string
	baseURL  string
	logger   *slog.Logger
}

var _ ports.FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a local storage rooted at basePath. Links are
// built from baseURL, or file:// URLs when baseURL is empty.
func NewLocalStorage(basePath, baseURL string, logger *slog.Logger) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger.With(slog.String("storage", "local")),
	}
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.basePath, clean), nil
}

// Upload writes data under basePath/key
func (l *LocalStorage) Upload(ctx context.Context, key string, data io.Reader, _ string) (string, error) {
	path, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, data)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	l.logger.InfoContext(ctx, "file stored",
		slog.String("key", key),
		slog.Int64("bytes", n))

	return path, nil
}

// GetPresignedURL returns a link to a stored file. Local links do not expire.
func (l *LocalStorage) GetPresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	path, err := l.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if l.baseURL != "" {
		return l.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(filepath.Clean("/"+key)), "/"), nil
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}
