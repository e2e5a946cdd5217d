// internal/handlers/import.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/workers"
)

// ImportHandler accepts barcode files and queues them against a draft
type ImportHandler struct {
	scans     ports.ScanService
	tasks     ports.TaskEnqueuer
	cache     ports.CacheRepository
	uploadDir string
	maxPDF    int64
	maxXLSX   int64
	logger    *slog.Logger
}

// NewImportHandler creates a new import handler. Size limits are in bytes.
func NewImportHandler(
	scans ports.ScanService,
	tasks ports.TaskEnqueuer,
	cache ports.CacheRepository,
	uploadDir string,
	maxPDF, maxXLSX int64,
	logger *slog.Logger,
) *ImportHandler {
	return &ImportHandler{
		scans:     scans,
		tasks:     tasks,
		cache:     cache,
		uploadDir: uploadDir,
		maxPDF:    maxPDF,
		maxXLSX:   maxXLSX,
		logger:    logger.With(slog.String("handler", "import")),
	}
}

func (h *ImportHandler) limit(format workers.ImportFormat) int64 {
	if format == workers.FormatPDF {
		return h.maxPDF
	}
	return h.maxXLSX
}

// Import handles POST /api/v1/drafts/{id}/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draftID, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}
	if _, err := h.scans.GetDraft(ctx, draftID); err != nil {
		respondServiceError(w, r, h.logger, "failed to get draft for import", err)
		return
	}

	if err := r.ParseMultipartForm(max(h.maxPDF, h.maxXLSX)); err != nil {
		respondError(w, r, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	format, ok := workers.FormatFromFilename(header.Filename)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Only .xlsx and .pdf files are allowed")
		return
	}
	if limit := h.limit(format); limit > 0 && header.Size > limit {
		respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds %d MB", limit/1024/1024))
		return
	}

	jobID := uuid.New().String()
	path, err := h.save(file, jobID+"."+string(format))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save upload",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		respondError(w, r, http.StatusInternalServerError, "Failed to save upload")
		return
	}

	job, err := h.enqueue(ctx, workers.ImportPayload{
		JobID:    jobID,
		DraftID:  draftID,
		FilePath: path,
		Format:   format,
	})
	if err != nil {
		_ = os.Remove(path)
		h.logger.ErrorContext(ctx, "failed to queue import",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, r, http.StatusInternalServerError, "Failed to queue import job")
		return
	}

	h.logger.InfoContext(ctx, "barcode import queued",
		slog.String("job_id", jobID),
		slog.String("draft_id", draftID.String()),
		slog.String("format", string(format)))

	w.Header().Set("Location", "/api/v1/imports/"+jobID)
	respondJSON(w, http.StatusAccepted, job)
}

func (h *ImportHandler) save(src io.Reader, name string) (string, error) {
	return saveUpload(h.uploadDir, name, src)
}

// saveUpload copies src into dir/name. The file is removed if it cannot be
// written completely.
func saveUpload(dir, name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, nil
}

func (h *ImportHandler) enqueue(ctx context.Context, payload workers.ImportPayload) (*workers.ImportJob, error) {
	job := &workers.ImportJob{
		JobID:     payload.JobID,
		DraftID:   payload.DraftID,
		Status:    workers.JobPending,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.cache.SetWithTTL(ctx, workers.ImportJobKey(job.JobID), job, workers.ImportJobTTL); err != nil {
		return nil, fmt.Errorf("failed to record job: %w", err)
	}

	task, err := workers.NewImportTask(payload)
	if err != nil {
		return nil, err
	}
	if _, err := h.tasks.EnqueueContext(ctx, task); err != nil {
		_ = h.cache.Delete(ctx, workers.ImportJobKey(job.JobID))
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}
	return job, nil
}

// ImportStatus handles GET /api/v1/imports/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var job workers.ImportJob
	err := h.cache.Get(ctx, workers.ImportJobKey(jobID), &job)
	if errors.Is(err, ports.ErrCacheMiss) {
		respondError(w, r, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get job status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		respondError(w, r, http.StatusInternalServerError, "Failed to get job status")
		return
	}

	respondJSON(w, http.StatusOK, job)
}
