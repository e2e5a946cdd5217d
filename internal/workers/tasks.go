// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

const (
	TypeDocumentSubmit   = "document:submit"
	TypeBarcodeImport    = "barcode:import"
	TypeReconcileReport  = "reconcile:report"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// SubmitPayload carries a finished draft to the submit processor
type SubmitPayload struct {
	Submission domain.Submission `json:"submission"`
	QueuedAt   time.Time         `json:"queued_at"`
}

// ImportFormat is the kind of file a barcode list is read from
type ImportFormat string

const (
	FormatXLSX ImportFormat = "xlsx"
	FormatPDF  ImportFormat = "pdf"
)

// FormatFromFilename picks the import format from a file extension
func FormatFromFilename(name string) (ImportFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, true
	case ".pdf":
		return FormatPDF, true
	}
	return "", false
}

// ImportPayload points the import processor at an uploaded barcode file
type ImportPayload struct {
	JobID    string       `json:"job_id"`
	DraftID  uuid.UUID    `json:"draft_id"`
	FilePath string       `json:"file_path"`
	Format   ImportFormat `json:"format"`
}

// JobStatus tracks an import job through the queue
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ImportJob is the pollable state of a barcode import
type ImportJob struct {
	JobID        string    `json:"job_id"`
	DraftID      uuid.UUID `json:"draft_id"`
	Status       JobStatus `json:"status"`
	Codes        int       `json:"codes"`
	Added        int       `json:"added"`
	Incremented  int       `json:"incremented"`
	NotFound     int       `json:"not_found"`
	Unrecognized []string  `json:"unrecognized,omitempty"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ImportJobTTL is how long import job state stays pollable
const ImportJobTTL = 24 * time.Hour

// ImportJobKey is the cache key of an import job
func ImportJobKey(jobID string) string {
	return "job:import:" + jobID
}

// ReportPayload names the two bills a diff report compares
type ReportPayload struct {
	EntryBillID int64 `json:"entry_bill_id"`
	ExitBillID  int64 `json:"exit_bill_id"`
}

// NewSubmitTask builds a document:submit task
func NewSubmitTask(sub domain.Submission) (*asynq.Task, error) {
	payload, err := json.Marshal(SubmitPayload{Submission: sub, QueuedAt: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submit payload: %w", err)
	}
	return asynq.NewTask(TypeDocumentSubmit, payload,
		asynq.Queue(QueueCritical),
		asynq.TaskID("submit:"+sub.DraftID.String())), nil
}

// NewImportTask builds a barcode:import task
func NewImportTask(p ImportPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}
	return asynq.NewTask(TypeBarcodeImport, payload,
		asynq.Queue(QueueDefault),
		asynq.TaskID("import:"+p.JobID),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute)), nil
}

// NewReportTask builds a reconcile:report task
func NewReportTask(p ReportPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeReconcileReport, payload,
		asynq.Queue(QueueLow),
		asynq.Timeout(2*time.Minute)), nil
}

// NewCleanupTask builds a cleanup:temp_files task
func NewCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTempFiles, nil, asynq.Queue(QueueLow))
}

// ReportCacheKey is where the archived report URL for a bill pair is kept
func ReportCacheKey(entryBillID, exitBillID int64) string {
	return fmt.Sprintf("report:diff:%d:%d", entryBillID, exitBillID)
}
