// internal/handlers/drafts.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/pkg/logger"
)

// DraftHandler exposes scanning on in-progress documents
type DraftHandler struct {
	service       ports.ScanService
	maxBatchCodes int
	logger        *slog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(service ports.ScanService, maxBatchCodes int, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		service:       service,
		maxBatchCodes: maxBatchCodes,
		logger:        logger.With(slog.String("handler", "drafts")),
	}
}

// ScanRequest carries one barcode or an ordered list of them
type ScanRequest struct {
	Barcode  string   `json:"barcode,omitempty"`
	Barcodes []string `json:"barcodes,omitempty" jsonschema:"maxItems=5000"`
}

// ReasonRequest sets the reason on a broken-item row
type ReasonRequest struct {
	Reason string `json:"reason" jsonschema:"required"`
}

// DiscountRequest sets the discount on a sale row
type DiscountRequest struct {
	Discount float64 `json:"discount" jsonschema:"minimum=0"`
}

// OpenDraft handles POST /api/v1/drafts
func (h *DraftHandler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params ports.OpenDraftParams
	if err := decodeJSON(r, &params); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.service.OpenDraft(ctx, params)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to open draft", err)
		return
	}

	w.Header().Set("Location", "/api/v1/drafts/"+draft.ID.String())
	respondJSON(w, http.StatusCreated, draft)
}

// GetDraft handles GET /api/v1/drafts/{id}
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}

	draft, err := h.service.GetDraft(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to get draft", err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// DiscardDraft handles DELETE /api/v1/drafts/{id}
func (h *DraftHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}

	if err := h.service.DiscardDraft(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, "failed to discard draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Scan handles POST /api/v1/drafts/{id}/scan. A single barcode returns the
// scan outcome; a list is applied in order and summarized.
func (h *DraftHandler) Scan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}
	ctx := logger.WithValue(r.Context(), logger.ContextKeyDraftID, id.String())

	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Barcodes) > 0 {
		if h.maxBatchCodes > 0 && len(req.Barcodes) > h.maxBatchCodes {
			respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("At most %d barcodes per request", h.maxBatchCodes))
			return
		}
		result, err := h.service.ScanBatch(ctx, id, req.Barcodes)
		if err != nil {
			respondServiceError(w, r.WithContext(ctx), h.logger, "failed to scan batch", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
		return
	}

	if strings.TrimSpace(req.Barcode) == "" {
		respondError(w, r, http.StatusBadRequest, "barcode or barcodes is required")
		return
	}

	result, err := h.service.Scan(ctx, id, req.Barcode)
	if err != nil {
		respondServiceError(w, r.WithContext(ctx), h.logger, "failed to scan", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// RemoveItem handles DELETE /api/v1/drafts/{id}/items/{variantId}
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, variantID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	draft, err := h.service.RemoveItem(r.Context(), id, variantID)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to remove item", err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// SetReason handles PUT /api/v1/drafts/{id}/items/{variantId}/reason
func (h *DraftHandler) SetReason(w http.ResponseWriter, r *http.Request) {
	id, variantID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.service.SetBrokenReason(r.Context(), id, variantID, strings.TrimSpace(req.Reason))
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to set reason", err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// SetDiscount handles PUT /api/v1/drafts/{id}/items/{variantId}/discount
func (h *DraftHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	id, variantID, ok := h.itemPath(w, r)
	if !ok {
		return
	}

	var req DiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	draft, err := h.service.SetSaleDiscount(r.Context(), id, variantID, req.Discount)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to set discount", err)
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// SubmitDraft handles POST /api/v1/drafts/{id}/submit
func (h *DraftHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return
	}

	result, err := h.service.SubmitDraft(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, "failed to submit draft", err)
		return
	}
	respondJSON(w, http.StatusAccepted, result)
}

// InvalidateSnapshot handles DELETE /api/v1/snapshots/{locationId}
func (h *DraftHandler) InvalidateSnapshot(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathInt64(r, "locationId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid location ID")
		return
	}

	if err := h.service.InvalidateSnapshot(r.Context(), locationID); err != nil {
		respondServiceError(w, r, h.logger, "failed to invalidate snapshot", err)
		return
	}

	h.logger.InfoContext(r.Context(), "snapshot invalidated", slog.Int64("location_id", locationID))
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateAllSnapshots handles DELETE /api/v1/snapshots
func (h *DraftHandler) InvalidateAllSnapshots(w http.ResponseWriter, r *http.Request) {
	if err := h.service.InvalidateAllSnapshots(r.Context()); err != nil {
		respondServiceError(w, r, h.logger, "failed to invalidate snapshots", err)
		return
	}

	h.logger.InfoContext(r.Context(), "all snapshots invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func (h *DraftHandler) itemPath(w http.ResponseWriter, r *http.Request) (id uuid.UUID, variantID int64, ok bool) {
	draftID, ok := pathUUID(r, "id")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid draft ID format")
		return id, 0, false
	}
	variantID, ok = pathInt64(r, "variantId")
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid variant ID")
		return id, 0, false
	}
	return draftID, variantID, true
}
