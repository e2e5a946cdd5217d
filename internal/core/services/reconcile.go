// internal/core/services/reconcile.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/core/reconcile"
	"github.com/ammerola/franchise-reconcile/internal/workers"
)

// ErrReportNotReady is returned while no archived report exists for a bill pair
var ErrReportNotReady = errors.New("report not ready")

// ReconcileService diffs entry bills against exit bills
type ReconcileService struct {
	bills     ports.BillRepository
	snapshots ports.SnapshotRepository
	drafts    ports.DraftStore
	cache     ports.CacheRepository
	tasks     ports.TaskEnqueuer
	logger    *slog.Logger
}

var _ ports.ReconcileService = (*ReconcileService)(nil)

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	bills ports.BillRepository,
	snapshots ports.SnapshotRepository,
	drafts ports.DraftStore,
	cache ports.CacheRepository,
	tasks ports.TaskEnqueuer,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		bills:     bills,
		snapshots: snapshots,
		drafts:    drafts,
		cache:     cache,
		tasks:     tasks,
		logger:    logger.With(slog.String("service", "reconcile")),
	}
}

func (s *ReconcileService) loadPair(ctx context.Context, entryBillID, exitBillID int64) (*domain.Bill, *domain.Bill, error) {
	entry, err := s.bills.FindBill(ctx, entryBillID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entry bill %d: %w", entryBillID, err)
	}
	if entry.Direction != domain.BillEntry {
		return nil, nil, fmt.Errorf("%w: bill %d is %s, want %s", domain.ErrBillDirection, entryBillID, entry.Direction, domain.BillEntry)
	}

	exit, err := s.bills.FindBill(ctx, exitBillID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load exit bill %d: %w", exitBillID, err)
	}
	if exit.Direction != domain.BillExit {
		return nil, nil, fmt.Errorf("%w: bill %d is %s, want %s", domain.ErrBillDirection, exitBillID, exit.Direction, domain.BillExit)
	}
	return entry, exit, nil
}

// Diff computes the missing and extra rows between two bills
func (s *ReconcileService) Diff(ctx context.Context, entryBillID, exitBillID int64) (*domain.DiffReport, error) {
	entry, exit, err := s.loadPair(ctx, entryBillID, exitBillID)
	if err != nil {
		return nil, err
	}

	report := reconcile.Diff(*entry, *exit)
	if report.UnpricedRows > 0 {
		s.logger.WarnContext(ctx, "exit bill rows skipped",
			slog.Int64("exit_bill_id", exitBillID),
			slog.Int("rows", report.UnpricedRows),
			slog.String("error", domain.ErrMissingPricingData.Error()))
	}

	s.logger.InfoContext(ctx, "bills reconciled",
		slog.Int64("entry_bill_id", entryBillID),
		slog.Int64("exit_bill_id", exitBillID),
		slog.Int("missing", len(report.Missing)),
		slog.Int("extra", len(report.Extra)),
		slog.String("missing_total", report.MissingTotal.String()))

	return &report, nil
}

// OpenCorrectiveDraft opens a franchise bill draft seeded with the rows the
// exit bill's franchise never received.
func (s *ReconcileService) OpenCorrectiveDraft(ctx context.Context, entryBillID, exitBillID int64) (*domain.Draft, error) {
	entry, exit, err := s.loadPair(ctx, entryBillID, exitBillID)
	if err != nil {
		return nil, err
	}
	if exit.FranchiseID == nil {
		return nil, fmt.Errorf("validation failed: exit bill %d has no franchise", exitBillID)
	}

	missing := reconcile.ComputeMissing(entry.Items, exit.Items)
	if len(missing) == 0 {
		return nil, fmt.Errorf("nothing missing between bills %d and %d: %w", entryBillID, exitBillID, domain.ErrEmptyDraft)
	}

	franchise, err := s.snapshots.FindFranchise(ctx, *exit.FranchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load franchise %d: %w", *exit.FranchiseID, err)
	}

	draft, err := domain.NewDraft(domain.KindFranchiseBill, exit.LocationID, franchise)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	draft.BillItems = missing

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.logger.InfoContext(ctx, "corrective draft opened",
		slog.String("draft_id", draft.ID.String()),
		slog.Int64("exit_bill_id", exitBillID),
		slog.Int("lines", len(missing)))

	return draft, nil
}

// RequestReportExport queues archiving the diff workbook and returns the task id
func (s *ReconcileService) RequestReportExport(ctx context.Context, entryBillID, exitBillID int64) (string, error) {
	task, err := workers.NewReportTask(workers.ReportPayload{EntryBillID: entryBillID, ExitBillID: exitBillID})
	if err != nil {
		return "", err
	}
	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue report: %w", err)
	}

	s.logger.InfoContext(ctx, "report export queued",
		slog.String("task_id", info.ID),
		slog.Int64("entry_bill_id", entryBillID),
		slog.Int64("exit_bill_id", exitBillID))

	return info.ID, nil
}

// ReportURL returns the download link of the archived report
func (s *ReconcileService) ReportURL(ctx context.Context, entryBillID, exitBillID int64) (string, error) {
	var url string
	err := s.cache.Get(ctx, workers.ReportCacheKey(entryBillID, exitBillID), &url)
	if errors.Is(err, ports.ErrCacheMiss) {
		return "", ErrReportNotReady
	}
	if err != nil {
		return "", fmt.Errorf("failed to read report url: %w", err)
	}
	return url, nil
}
