// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

// ScanService drives barcode scanning on drafts.
type ScanService interface {
	OpenDraft(ctx context.Context, params OpenDraftParams) (*domain.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*domain.Draft, error)
	DiscardDraft(ctx context.Context, id uuid.UUID) error
	Scan(ctx context.Context, id uuid.UUID, barcode string) (*ScanResult, error)
	ScanBatch(ctx context.Context, id uuid.UUID, barcodes []string) (*BatchScanResult, error)
	RemoveItem(ctx context.Context, id uuid.UUID, variantID int64) (*domain.Draft, error)
	SetBrokenReason(ctx context.Context, id uuid.UUID, variantID int64, reason string) (*domain.Draft, error)
	SetSaleDiscount(ctx context.Context, id uuid.UUID, variantID int64, discount float64) (*domain.Draft, error)
	SubmitDraft(ctx context.Context, id uuid.UUID) (*SubmitResult, error)
	InvalidateSnapshot(ctx context.Context, locationID int64) error
	InvalidateAllSnapshots(ctx context.Context) error
}

// ReconcileService compares entry and exit bills.
type ReconcileService interface {
	Diff(ctx context.Context, entryBillID, exitBillID int64) (*domain.DiffReport, error)
	OpenCorrectiveDraft(ctx context.Context, entryBillID, exitBillID int64) (*domain.Draft, error)
	RequestReportExport(ctx context.Context, entryBillID, exitBillID int64) (string, error)
	ReportURL(ctx context.Context, entryBillID, exitBillID int64) (string, error)
}

// OpenDraftParams describes a new draft
type OpenDraftParams struct {
	Kind        domain.DocumentKind `json:"kind"`
	LocationID  int64               `json:"location_id"`
	FranchiseID int64               `json:"franchise_id,omitempty"`
}

// ScanResult is returned for every scan, recognized or not
type ScanResult struct {
	Draft   *domain.Draft      `json:"draft"`
	Outcome domain.ScanOutcome `json:"outcome"`
	Barcode string             `json:"barcode"`
	Message string             `json:"message"`
}

// BatchScanResult summarizes a list of scans applied in order
type BatchScanResult struct {
	Draft        *domain.Draft `json:"draft"`
	Added        int           `json:"added"`
	Incremented  int           `json:"incremented"`
	NotFound     int           `json:"not_found"`
	Unrecognized []string      `json:"unrecognized,omitempty"`
}

// SubmitResult identifies the queued submission
type SubmitResult struct {
	DraftID uuid.UUID `json:"draft_id"`
	TaskID  string    `json:"task_id"`
	Lines   int       `json:"lines"`
}
