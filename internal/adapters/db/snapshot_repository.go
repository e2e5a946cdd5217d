// internal/adapters/db/snapshot_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// SnapshotRepository implements ports.SnapshotRepository
type SnapshotRepository struct {
	db     Querier
	logger *slog.Logger
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db Querier, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "snapshot")),
	}
}

// scanProduct reads the trailing product columns; a NULL product id yields nil
func scanProduct(id *int64, p *domain.Product) *domain.Product {
	if id == nil {
		return nil
	}
	p.ID = *id
	return p
}

// LoadSnapshot returns every inventory item stocked at a location
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, locationID int64) (domain.Snapshot, error) {
	query, args, err := snapshotQuery(locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	items, err := collect(rows, func(row pgx.Rows) (domain.InventoryItem, error) {
		var (
			item      domain.InventoryItem
			productID *int64
			product   domain.Product
		)
		err := row.Scan(
			&item.ID, &item.ProductVariantID, &item.Quantity,
			&item.ProductVariant.QRCode, &item.ProductVariant.Color,
			&item.ProductVariant.Size, &item.ProductVariant.Name,
			&productID, &product.Name, &product.Price, &product.FirstPrice,
			&product.FranchisePrice, &product.VIPFranchisePrice,
		)
		if err != nil {
			return item, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		item.ProductVariant.ID = item.ProductVariantID
		item.QRCode = item.ProductVariant.QRCode
		item.Product = scanProduct(productID, &product)
		return item, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "snapshot loaded",
		slog.Int64("location_id", locationID),
		slog.Int("items", len(items)))

	return domain.Snapshot(items), nil
}

// FindFranchise returns a franchise by id
func (r *SnapshotRepository) FindFranchise(ctx context.Context, franchiseID int64) (*domain.Franchise, error) {
	query, args, err := franchiseQuery(franchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to build franchise query: %w", err)
	}

	var f domain.Franchise
	var franchiseType string
	err = r.db.QueryRow(ctx, query, args...).Scan(&f.ID, &f.Name, &franchiseType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFranchiseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query franchise: %w", err)
	}
	f.FranchiseType = domain.FranchiseType(franchiseType)
	return &f, nil
}
