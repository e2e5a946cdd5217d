// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

// SnapshotRepository reads inventory snapshots from the backend's store.
// Implemented by the database adapter.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context, locationID int64) (domain.Snapshot, error)
	FindFranchise(ctx context.Context, franchiseID int64) (*domain.Franchise, error)
}

// BillRepository reads submitted bills with their line items and products.
type BillRepository interface {
	FindBill(ctx context.Context, billID int64) (*domain.Bill, error)
}

// DraftMutation changes a draft in place and reports whether anything changed.
// It may run more than once for a single update.
type DraftMutation func(draft *domain.Draft) (bool, error)

// DraftStore keeps in-progress documents until they are submitted.
type DraftStore interface {
	Save(ctx context.Context, draft *domain.Draft) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Update applies fn to the stored draft atomically. Nothing is written
	// when fn reports no change or returns an error.
	Update(ctx context.Context, id uuid.UUID, fn DraftMutation) (*domain.Draft, error)
	// Take removes the draft once check accepts it and returns what was removed.
	Take(ctx context.Context, id uuid.UUID, check func(draft *domain.Draft) error) (*domain.Draft, error)
}
