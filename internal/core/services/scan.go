// internal/core/services/scan.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/core/reconcile"
	"github.com/ammerola/franchise-reconcile/internal/workers"
)

const (
	defaultSnapshotTTL = 10 * time.Minute
	snapshotKeyPrefix  = "snapshot:"
)

// ScanService applies barcode scans to drafts
type ScanService struct {
	snapshots   ports.SnapshotRepository
	drafts      ports.DraftStore
	cache       ports.CacheRepository
	tasks       ports.TaskEnqueuer
	snapshotTTL time.Duration
	logger      *slog.Logger
}

var _ ports.ScanService = (*ScanService)(nil)

// NewScanService creates a new scan service
func NewScanService(
	snapshots ports.SnapshotRepository,
	drafts ports.DraftStore,
	cache ports.CacheRepository,
	tasks ports.TaskEnqueuer,
	snapshotTTL time.Duration,
	logger *slog.Logger,
) *ScanService {
	if snapshotTTL <= 0 {
		snapshotTTL = defaultSnapshotTTL
	}
	return &ScanService{
		snapshots:   snapshots,
		drafts:      drafts,
		cache:       cache,
		tasks:       tasks,
		snapshotTTL: snapshotTTL,
		logger:      logger.With(slog.String("service", "scan")),
	}
}

// SnapshotCacheKey is the cache key of a location's inventory snapshot
func SnapshotCacheKey(locationID int64) string {
	return fmt.Sprintf("%s%d", snapshotKeyPrefix, locationID)
}

// OpenDraft creates an empty draft. Franchise bills resolve their franchise first.
func (s *ScanService) OpenDraft(ctx context.Context, params ports.OpenDraftParams) (*domain.Draft, error) {
	if !params.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDocumentKind, params.Kind)
	}

	var franchise *domain.Franchise
	if params.FranchiseID > 0 {
		f, err := s.snapshots.FindFranchise(ctx, params.FranchiseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load franchise %d: %w", params.FranchiseID, err)
		}
		franchise = f
	}

	draft, err := domain.NewDraft(params.Kind, params.LocationID, franchise)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.InfoContext(ctx, "draft opened",
		slog.String("draft_id", draft.ID.String()),
		slog.String("kind", string(draft.Kind)),
		slog.Int64("location_id", draft.LocationID))

	return draft, nil
}

// GetDraft returns a draft by id
func (s *ScanService) GetDraft(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// DiscardDraft drops a draft without submitting it
func (s *ScanService) DiscardDraft(ctx context.Context, id uuid.UUID) error {
	if err := s.drafts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	s.logger.InfoContext(ctx, "draft discarded", slog.String("draft_id", id.String()))
	return nil
}

// Scan applies one barcode to a draft. An unknown barcode is reported through
// the outcome, never as an error.
func (s *ScanService) Scan(ctx context.Context, id uuid.UUID, barcode string) (*ports.ScanResult, error) {
	barcode = strings.TrimSpace(barcode)

	snapshot, err := s.draftSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	var outcome domain.ScanOutcome
	draft, err := s.drafts.Update(ctx, id, func(d *domain.Draft) (bool, error) {
		outcome = s.apply(ctx, d, snapshot, barcode)
		if !outcome.Changed() {
			return false, nil
		}
		d.UpdatedAt = time.Now().UTC()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	s.logger.DebugContext(ctx, "barcode scanned",
		slog.String("draft_id", draft.ID.String()),
		slog.String("barcode", barcode),
		slog.String("outcome", string(outcome)))

	return &ports.ScanResult{
		Draft:   draft,
		Outcome: outcome,
		Barcode: barcode,
		Message: OutcomeMessage(outcome),
	}, nil
}

// ScanBatch applies barcodes in order and saves the draft once.
func (s *ScanService) ScanBatch(ctx context.Context, id uuid.UUID, barcodes []string) (*ports.BatchScanResult, error) {
	snapshot, err := s.draftSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *ports.BatchScanResult
	draft, err := s.drafts.Update(ctx, id, func(d *domain.Draft) (bool, error) {
		result = &ports.BatchScanResult{}
		for _, raw := range barcodes {
			code := strings.TrimSpace(raw)
			if code == "" {
				continue
			}
			switch s.apply(ctx, d, snapshot, code) {
			case domain.OutcomeAdded:
				result.Added++
			case domain.OutcomeIncremented:
				result.Incremented++
			default:
				result.NotFound++
				result.Unrecognized = append(result.Unrecognized, code)
			}
		}
		if result.Added+result.Incremented == 0 {
			return false, nil
		}
		d.UpdatedAt = time.Now().UTC()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	result.Draft = draft

	s.logger.InfoContext(ctx, "batch scanned",
		slog.String("draft_id", draft.ID.String()),
		slog.Int("added", result.Added),
		slog.Int("incremented", result.Incremented),
		slog.Int("not_found", result.NotFound))

	return result, nil
}

// draftSnapshot loads the inventory of the draft's location
func (s *ScanService) draftSnapshot(ctx context.Context, id uuid.UUID) (domain.Snapshot, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return s.loadSnapshot(ctx, draft.LocationID)
}

// apply runs the aggregator variant matching the draft's kind and swaps in the
// resulting list.
func (s *ScanService) apply(ctx context.Context, draft *domain.Draft, snapshot domain.Snapshot, barcode string) domain.ScanOutcome {
	var (
		outcome  domain.ScanOutcome
		unpriced bool
		item     domain.InventoryItem
	)

	switch draft.Kind {
	case domain.KindSupplierBill:
		res := reconcile.ScanSupplierBill(snapshot, barcode, draft.BillItems)
		draft.BillItems, outcome, unpriced, item = res.Items, res.Outcome, res.Unpriced, res.Item
	case domain.KindFranchiseBill:
		franchiseType := domain.FranchiseNormal
		if draft.Franchise != nil {
			franchiseType = draft.Franchise.FranchiseType
		}
		res := reconcile.ScanFranchiseBill(snapshot, barcode, draft.BillItems, franchiseType)
		draft.BillItems, outcome, unpriced, item = res.Items, res.Outcome, res.Unpriced, res.Item
	case domain.KindSale:
		res := reconcile.ScanSale(snapshot, barcode, draft.SaleItems, nil)
		draft.SaleItems, outcome, unpriced, item = res.Items, res.Outcome, res.Unpriced, res.Item
	case domain.KindBrokenItems:
		res := reconcile.ScanBrokenItem(snapshot, barcode, draft.BrokenItems)
		draft.BrokenItems, outcome, item = res.Items, res.Outcome, res.Item
	default:
		return domain.OutcomeNotFound
	}

	if unpriced {
		s.logger.WarnContext(ctx, "scanned item cannot be priced",
			slog.String("draft_id", draft.ID.String()),
			slog.String("barcode", barcode),
			slog.Int64("product_variant_id", item.VariantID()),
			slog.String("error", domain.ErrMissingPricingData.Error()))
	}
	return outcome
}

func (s *ScanService) loadSnapshot(ctx context.Context, locationID int64) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := s.cache.GetOrSet(ctx, SnapshotCacheKey(locationID), &snapshot, func() (interface{}, error) {
		return s.snapshots.LoadSnapshot(ctx, locationID)
	}, s.snapshotTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for location %d: %w", locationID, err)
	}
	return snapshot, nil
}

// RemoveItem deletes the row for a variant
func (s *ScanService) RemoveItem(ctx context.Context, id uuid.UUID, variantID int64) (*domain.Draft, error) {
	return s.edit(ctx, id, func(d *domain.Draft) error {
		var ok bool
		switch d.Kind {
		case domain.KindSupplierBill, domain.KindFranchiseBill:
			d.BillItems, ok = reconcile.RemoveRow(d.BillItems, variantID, lineItemKey)
		case domain.KindSale:
			d.SaleItems, ok = reconcile.RemoveRow(d.SaleItems, variantID, saleItemKey)
		case domain.KindBrokenItems:
			d.BrokenItems, ok = reconcile.RemoveRow(d.BrokenItems, variantID, brokenItemKey)
		}
		return rowFound(ok)
	})
}

// SetBrokenReason records why a broken item was reported
func (s *ScanService) SetBrokenReason(ctx context.Context, id uuid.UUID, variantID int64, reason string) (*domain.Draft, error) {
	return s.edit(ctx, id, func(d *domain.Draft) error {
		if d.Kind != domain.KindBrokenItems {
			return fmt.Errorf("%w: reasons apply to %s, draft is %s", domain.ErrKindMismatch, domain.KindBrokenItems, d.Kind)
		}
		var ok bool
		d.BrokenItems, ok = reconcile.UpdateRow(d.BrokenItems, variantID, brokenItemKey, func(row domain.BrokenItem) domain.BrokenItem {
			row.Reason = strings.TrimSpace(reason)
			return row
		})
		return rowFound(ok)
	})
}

// SetSaleDiscount sets the discount on a sale row
func (s *ScanService) SetSaleDiscount(ctx context.Context, id uuid.UUID, variantID int64, discount float64) (*domain.Draft, error) {
	if discount < 0 {
		return nil, fmt.Errorf("validation failed: discount cannot be negative")
	}
	return s.edit(ctx, id, func(d *domain.Draft) error {
		if d.Kind != domain.KindSale {
			return fmt.Errorf("%w: discounts apply to %s, draft is %s", domain.ErrKindMismatch, domain.KindSale, d.Kind)
		}
		var ok bool
		d.SaleItems, ok = reconcile.UpdateRow(d.SaleItems, variantID, saleItemKey, func(row domain.SaleItem) domain.SaleItem {
			row.Discount = discount
			return row
		})
		return rowFound(ok)
	})
}

func rowFound(ok bool) error {
	if !ok {
		return domain.ErrLineItemNotFound
	}
	return nil
}

func (s *ScanService) edit(ctx context.Context, id uuid.UUID, fn func(*domain.Draft) error) (*domain.Draft, error) {
	draft, err := s.drafts.Update(ctx, id, func(d *domain.Draft) (bool, error) {
		if err := fn(d); err != nil {
			return false, err
		}
		d.UpdatedAt = time.Now().UTC()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit draft: %w", err)
	}
	return draft, nil
}

// SubmitDraft queues the finished document for the backend and discards the
// draft. The draft is removed before the task is queued so a scan cannot land
// after the submitted copy was taken; it is put back if queueing fails.
func (s *ScanService) SubmitDraft(ctx context.Context, id uuid.UUID) (*ports.SubmitResult, error) {
	var task *asynq.Task
	draft, err := s.drafts.Take(ctx, id, func(d *domain.Draft) error {
		if d.LineCount() == 0 {
			return domain.ErrEmptyDraft
		}
		t, err := workers.NewSubmitTask(d.Submission())
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take draft: %w", err)
	}

	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		if restoreErr := s.drafts.Save(ctx, draft); restoreErr != nil {
			s.logger.ErrorContext(ctx, "failed to restore draft after enqueue failure",
				slog.String("draft_id", id.String()),
				slog.String("error", restoreErr.Error()))
		}
		return nil, fmt.Errorf("failed to enqueue submission: %w", err)
	}

	s.logger.InfoContext(ctx, "draft submitted",
		slog.String("draft_id", id.String()),
		slog.String("task_id", info.ID),
		slog.Int("lines", draft.LineCount()))

	return &ports.SubmitResult{DraftID: id, TaskID: info.ID, Lines: draft.LineCount()}, nil
}

// InvalidateSnapshot forces the next scan at a location to reload inventory
func (s *ScanService) InvalidateSnapshot(ctx context.Context, locationID int64) error {
	if err := s.cache.Delete(ctx, SnapshotCacheKey(locationID)); err != nil {
		return fmt.Errorf("failed to invalidate snapshot: %w", err)
	}
	return nil
}

// InvalidateAllSnapshots drops every cached location snapshot
func (s *ScanService) InvalidateAllSnapshots(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, snapshotKeyPrefix+"*"); err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	return nil
}

// OutcomeMessage is the notification text shown for a scan outcome
func OutcomeMessage(outcome domain.ScanOutcome) string {
	switch outcome {
	case domain.OutcomeAdded:
		return "Product added"
	case domain.OutcomeIncremented:
		return "Quantity updated"
	default:
		return "Barcode not found"
	}
}

func lineItemKey(r domain.LineItem) int64     { return r.ProductVariantID }
func saleItemKey(r domain.SaleItem) int64     { return r.ProductVariantID }
func brokenItemKey(r domain.BrokenItem) int64 { return r.ProductVariantID }

// IsNotFound reports whether err means the requested resource does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDraftNotFound) ||
		errors.Is(err, domain.ErrBillNotFound) ||
		errors.Is(err, domain.ErrFranchiseNotFound) ||
		errors.Is(err, domain.ErrLineItemNotFound)
}
