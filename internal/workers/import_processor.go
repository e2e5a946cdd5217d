// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/adapters/barcodefile"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// ImportProcessor feeds uploaded barcode lists through a draft's scanner
type ImportProcessor struct {
	scans    ports.ScanService
	cache    ports.CacheRepository
	maxCodes int
	logger   *slog.Logger
}

// NewImportProcessor creates a new import processor. Files holding more than
// maxCodes barcodes are rejected; zero disables the limit.
func NewImportProcessor(scans ports.ScanService, cache ports.CacheRepository, maxCodes int, logger *slog.Logger) *ImportProcessor {
	return &ImportProcessor{
		scans:    scans,
		cache:    cache,
		maxCodes: maxCodes,
		logger:   logger.With(slog.String("processor", "import")),
	}
}

// ReadCodes extracts barcodes from a file in the given format
func ReadCodes(path string, format ImportFormat) ([]string, error) {
	switch format {
	case FormatXLSX:
		return barcodefile.ReadXLSX(path)
	case FormatPDF:
		return barcodefile.ReadPDF(path)
	}
	return nil, fmt.Errorf("unsupported import format %q", format)
}

// ProcessImport handles barcode:import tasks
func (p *ImportProcessor) ProcessImport(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing barcode import",
		slog.String("job_id", payload.JobID),
		slog.String("draft_id", payload.DraftID.String()),
		slog.String("format", string(payload.Format)))

	job := ImportJob{JobID: payload.JobID, DraftID: payload.DraftID, Status: JobProcessing}
	p.saveJob(ctx, &job)

	err := p.run(ctx, payload, &job)
	if err != nil {
		job.Error = err.Error()
	}
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		maxRetry = -1
	}
	job.Status = jobStatusFor(err, retried, maxRetry)

	// A retryable failure keeps the file for the next attempt
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		p.removeFile(ctx, payload.FilePath)
	}
	p.saveJob(ctx, &job)

	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "barcode import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("codes", job.Codes),
		slog.Int("added", job.Added),
		slog.Int("incremented", job.Incremented),
		slog.Int("not_found", job.NotFound))
	return nil
}

func (p *ImportProcessor) run(ctx context.Context, payload ImportPayload, job *ImportJob) error {
	codes, err := ReadCodes(payload.FilePath, payload.Format)
	if err != nil {
		return fmt.Errorf("failed to read barcodes: %v: %w", err, asynq.SkipRetry)
	}
	job.Codes = len(codes)
	if len(codes) == 0 {
		return nil
	}
	if p.maxCodes > 0 && len(codes) > p.maxCodes {
		return fmt.Errorf("file holds %d barcodes, limit is %d: %w", len(codes), p.maxCodes, asynq.SkipRetry)
	}

	result, err := p.scans.ScanBatch(ctx, payload.DraftID, codes)
	if errors.Is(err, domain.ErrDraftNotFound) {
		return fmt.Errorf("draft %s: %v: %w", payload.DraftID, err, asynq.SkipRetry)
	}
	if err != nil {
		return fmt.Errorf("failed to scan barcodes: %w", err)
	}

	job.Added = result.Added
	job.Incremented = result.Incremented
	job.NotFound = result.NotFound
	job.Unrecognized = result.Unrecognized
	return nil
}

// jobStatusFor reports the status to publish after an attempt. A retryable
// error leaves the job processing until asynq runs out of retries. A negative
// maxRetry means the retry budget is unknown.
func jobStatusFor(err error, retried, maxRetry int) JobStatus {
	switch {
	case err == nil:
		return JobCompleted
	case errors.Is(err, asynq.SkipRetry):
		return JobFailed
	case maxRetry >= 0 && retried >= maxRetry:
		return JobFailed
	}
	return JobProcessing
}

func (p *ImportProcessor) saveJob(ctx context.Context, job *ImportJob) {
	job.UpdatedAt = time.Now().UTC()
	if err := p.cache.SetWithTTL(ctx, ImportJobKey(job.JobID), job, ImportJobTTL); err != nil {
		p.logger.WarnContext(ctx, "failed to record import job status",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()))
	}
}

func (p *ImportProcessor) removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.WarnContext(ctx, "failed to remove import file",
			slog.String("file", path),
			slog.String("error", err.Error()))
	}
}
