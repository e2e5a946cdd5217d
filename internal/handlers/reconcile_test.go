package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/franchise-reconcile/internal/adapters/export"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/services"
	"github.com/ammerola/franchise-reconcile/internal/handlers"
	"github.com/ammerola/franchise-reconcile/test/helpers"
	"github.com/ammerola/franchise-reconcile/test/mocks"
)

var pairPath = map[string]string{"entryId": "1", "exitId": "2"}

func newReconcileHandler(t *testing.T) (*handlers.ReconcileHandler, *mocks.MockReconcileService) {
	t.Helper()
	svc := mocks.NewMockReconcileService(gomock.NewController(t))
	return handlers.NewReconcileHandler(svc, helpers.TestLogger()), svc
}

func sampleReport() *domain.DiffReport {
	return &domain.DiffReport{
		EntryBillID:  1,
		ExitBillID:   2,
		Missing:      []domain.LineItem{{ProductVariantID: 42, Quantity: 1, Price: 500, QRCode: "ABC123"}},
		MissingTotal: decimal.NewFromInt(500),
		ExtraTotal:   decimal.Zero,
	}
}

func TestReconcileHandler_Diff(t *testing.T) {
	tests := []struct {
		name       string
		path       map[string]string
		setup      func(svc *mocks.MockReconcileService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "report",
			path: pairPath,
			setup: func(svc *mocks.MockReconcileService) {
				svc.EXPECT().Diff(gomock.Any(), int64(1), int64(2)).Return(sampleReport(), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"missing_total":"500"`,
		},
		{
			name:       "bad_entry_id",
			path:       map[string]string{"entryId": "abc", "exitId": "2"},
			setup:      func(svc *mocks.MockReconcileService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "wrong_direction",
			path: pairPath,
			setup: func(svc *mocks.MockReconcileService) {
				svc.EXPECT().Diff(gomock.Any(), int64(1), int64(2)).
					Return(nil, fmt.Errorf("%w: bill 1 is exit, want entry", domain.ErrBillDirection))
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing_bill",
			path: pairPath,
			setup: func(svc *mocks.MockReconcileService) {
				svc.EXPECT().Diff(gomock.Any(), int64(1), int64(2)).
					Return(nil, fmt.Errorf("failed to load exit bill 2: %w", domain.ErrBillNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newReconcileHandler(t)
			tt.setup(svc)

			w := httptest.NewRecorder()
			h.Diff(w, newRequest(http.MethodGet, "/", "", tt.path))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestReconcileHandler_Export(t *testing.T) {
	h, svc := newReconcileHandler(t)
	svc.EXPECT().Diff(gomock.Any(), int64(1), int64(2)).Return(sampleReport(), nil)

	w := httptest.NewRecorder()
	h.Export(w, newRequest(http.MethodGet, "/", "", pairPath))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reconcile-1-2.xlsx")
	// xlsx files are zip archives
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestReconcileHandler_Corrective(t *testing.T) {
	t.Run("opens_draft", func(t *testing.T) {
		h, svc := newReconcileHandler(t)
		id := uuid.New()
		svc.EXPECT().OpenCorrectiveDraft(gomock.Any(), int64(1), int64(2)).
			Return(&domain.Draft{ID: id, Kind: domain.KindFranchiseBill, LocationID: 1}, nil)

		w := httptest.NewRecorder()
		h.Corrective(w, newRequest(http.MethodPost, "/", "", pairPath))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/v1/drafts/"+id.String(), w.Header().Get("Location"))
	})

	t.Run("nothing_missing", func(t *testing.T) {
		h, svc := newReconcileHandler(t)
		svc.EXPECT().OpenCorrectiveDraft(gomock.Any(), int64(1), int64(2)).
			Return(nil, fmt.Errorf("nothing missing between bills 1 and 2: %w", domain.ErrEmptyDraft))

		w := httptest.NewRecorder()
		h.Corrective(w, newRequest(http.MethodPost, "/", "", pairPath))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestReconcileHandler_Archive(t *testing.T) {
	h, svc := newReconcileHandler(t)

	gomock.InOrder(
		svc.EXPECT().RequestReportExport(gomock.Any(), int64(1), int64(2)).Return("task-9", nil),
		svc.EXPECT().ReportURL(gomock.Any(), int64(1), int64(2)).Return("", services.ErrReportNotReady),
		svc.EXPECT().ReportURL(gomock.Any(), int64(1), int64(2)).Return("https://files.example/r.xlsx", nil),
	)

	w := httptest.NewRecorder()
	h.Archive(w, newRequest(http.MethodPost, "/", "", pairPath))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"task_id":"task-9"`)

	w = httptest.NewRecorder()
	h.ArchiveURL(w, newRequest(http.MethodGet, "/", "", pairPath))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.ArchiveURL(w, newRequest(http.MethodGet, "/", "", pairPath))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://files.example/r.xlsx")
}
