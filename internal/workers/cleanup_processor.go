// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

// CleanupProcessor removes stale uploads left behind by failed imports
type CleanupProcessor struct {
	dir    string
	maxAge time.Duration
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor for dir
func NewCleanupProcessor(dir string, maxAge time.Duration, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		dir:    dir,
		maxAge: maxAge,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupTempFiles handles cleanup:temp_files tasks
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, _ *asynq.Task) error {
	deleted, err := p.Sweep(ctx, time.Now())
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "temp files cleaned up", slog.Int("files_deleted", deleted))
	return nil
}

// Sweep deletes regular files older than maxAge at now. A missing directory
// is not an error.
func (p *CleanupProcessor) Sweep(ctx context.Context, now time.Time) (int, error) {
	var deleted int
	err := filepath.WalkDir(p.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == p.dir {
				return filepath.SkipDir
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) <= p.maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			p.logger.WarnContext(ctx, "failed to delete temp file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			return nil
		}
		deleted++
		return nil
	})
	if err != nil {
		return deleted, fmt.Errorf("failed to walk temp directory: %w", err)
	}
	return deleted, nil
}
