// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/adapters/export"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// ReportProcessor renders diff reports and archives them
type ReportProcessor struct {
	reconcile ports.ReconcileService
	storage   ports.FileStorage
	cache     ports.CacheRepository
	urlExpiry time.Duration
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor. The archived link is
// cached for as long as it stays valid.
func NewReportProcessor(
	reconcile ports.ReconcileService,
	storage ports.FileStorage,
	cache ports.CacheRepository,
	urlExpiry time.Duration,
	logger *slog.Logger,
) *ReportProcessor {
	return &ReportProcessor{
		reconcile: reconcile,
		storage:   storage,
		cache:     cache,
		urlExpiry: urlExpiry,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// ReportKey is the storage key of an archived diff report
func ReportKey(entryBillID, exitBillID int64, at time.Time) string {
	return fmt.Sprintf("reports/%d-%d/%s.xlsx", entryBillID, exitBillID, at.UTC().Format("20060102T150405Z"))
}

// ProcessReport handles reconcile:report tasks
func (p *ReportProcessor) ProcessReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	report, err := p.reconcile.Diff(ctx, payload.EntryBillID, payload.ExitBillID)
	if errors.Is(err, domain.ErrBillNotFound) || errors.Is(err, domain.ErrBillDirection) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to compute diff: %w", err)
	}

	data, err := export.DiffReportBytes(*report)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	key := ReportKey(payload.EntryBillID, payload.ExitBillID, time.Now())
	if _, err := p.storage.Upload(ctx, key, bytes.NewReader(data), export.ContentType); err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := p.storage.GetPresignedURL(ctx, key, p.urlExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign report link: %w", err)
	}

	cacheKey := ReportCacheKey(payload.EntryBillID, payload.ExitBillID)
	if err := p.cache.SetWithTTL(ctx, cacheKey, url, p.urlExpiry); err != nil {
		return fmt.Errorf("failed to publish report link: %w", err)
	}

	p.logger.InfoContext(ctx, "diff report archived",
		slog.Int64("entry_bill_id", payload.EntryBillID),
		slog.Int64("exit_bill_id", payload.ExitBillID),
		slog.String("key", key),
		slog.Int("missing", len(report.Missing)),
		slog.Int("extra", len(report.Extra)),
		slog.Int("bytes", len(data)))
	return nil
}
