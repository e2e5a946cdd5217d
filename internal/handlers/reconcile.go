// internal/handlers/reconcile.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/franchise-reconcile/internal/adapters/export"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// ReconcileHandler compares entry and exit bills
type ReconcileHandler struct {
	service ports.ReconcileService
	logger  *slog.Logger
}

// NewReconcileHandler creates a new reconcile handler
func NewReconcileHandler(service ports.ReconcileService, logger *slog.Logger) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "reconcile")),
	}
}

func (h *ReconcileHandler) billPair(w http.ResponseWriter, r *http.Request) (entryID, exitID int64, ok bool) {
	entryID, ok = pathInt64(r, "entryId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid entry bill ID")
		return 0, 0, false
	}
	exitID, ok = pathInt64(r, "exitId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid exit bill ID")
		return 0, 0, false
	}
	return entryID, exitID, true
}

// Diff handles GET /api/v1/reconcile/{entryId}/{exitId}
func (h *ReconcileHandler) Diff(w http.ResponseWriter, r *http.Request) {
	entryID, exitID, ok := h.billPair(w, r)
	if !ok {
		return
	}

	report, err := h.service.Diff(r.Context(), entryID, exitID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to diff bills", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Export handles GET /api/v1/reconcile/{entryId}/{exitId}/export
func (h *ReconcileHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID, exitID, ok := h.billPair(w, r)
	if !ok {
		return
	}

	report, err := h.service.Diff(ctx, entryID, exitID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to diff bills", err)
		return
	}

	data, err := export.DiffReportBytes(*report)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render diff report",
			slog.Int64("entry_bill_id", entryID),
			slog.Int64("exit_bill_id", exitID),
			slog.String("error", err.Error()))
		respondError(w, r, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(*report)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Corrective handles POST /api/v1/reconcile/{entryId}/{exitId}/corrective
func (h *ReconcileHandler) Corrective(w http.ResponseWriter, r *http.Request) {
	entryID, exitID, ok := h.billPair(w, r)
	if !ok {
		return
	}

	draft, err := h.service.OpenCorrectiveDraft(r.Context(), entryID, exitID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to open corrective draft", err)
		return
	}

	w.Header().Set("Location", "/api/v1/drafts/"+draft.ID.String())
	respondJSON(w, http.StatusCreated, draft)
}

// Archive handles POST /api/v1/reconcile/{entryId}/{exitId}/archive
func (h *ReconcileHandler) Archive(w http.ResponseWriter, r *http.Request) {
	entryID, exitID, ok := h.billPair(w, r)
	if !ok {
		return
	}

	taskID, err := h.service.RequestReportExport(r.Context(), entryID, exitID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to queue report", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id": taskID,
		"status":  "queued",
	})
}

// ArchiveURL handles GET /api/v1/reconcile/{entryId}/{exitId}/archive
func (h *ReconcileHandler) ArchiveURL(w http.ResponseWriter, r *http.Request) {
	entryID, exitID, ok := h.billPair(w, r)
	if !ok {
		return
	}

	url, err := h.service.ReportURL(r.Context(), entryID, exitID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to get report url", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
