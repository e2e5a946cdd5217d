// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/services"
	"github.com/ammerola/franchise-reconcile/internal/pkg/logger"
)

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		RequestID: logger.RequestID(r.Context()),
	})
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrDraftNotFound),
		errors.Is(err, domain.ErrBillNotFound),
		errors.Is(err, domain.ErrFranchiseNotFound),
		errors.Is(err, domain.ErrLineItemNotFound),
		errors.Is(err, services.ErrReportNotReady):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDocumentKind),
		strings.Contains(err.Error(), "validation failed"):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyDraft),
		errors.Is(err, domain.ErrBillDirection),
		errors.Is(err, domain.ErrKindMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDraftConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError logs server faults and hides their detail from the caller
func respondServiceError(w http.ResponseWriter, r *http.Request, l *slog.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), msg, slog.String("error", err.Error()))
		respondError(w, r, status, "Internal server error")
		return
	}
	l.DebugContext(r.Context(), msg, slog.String("error", err.Error()))
	respondError(w, r, status, err.Error())
}

func decodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

func pathInt64(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}
