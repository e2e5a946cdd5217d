// internal/adapters/db/bill_repository.go
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

// BillRepository implements ports.BillRepository
type BillRepository struct {
	db     Querier
	logger *slog.Logger
}

var _ ports.BillRepository = (*BillRepository)(nil)

// NewBillRepository creates a new bill repository
func NewBillRepository(db Querier, logger *slog.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "bill")),
	}
}

// FindBill loads a bill header and its rows in position order
func (r *BillRepository) FindBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	query, args, err := billQuery(billID)
	if err != nil {
		return nil, fmt.Errorf("failed to build bill query: %w", err)
	}

	var (
		bill      domain.Bill
		direction string
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&bill.ID, &direction, &bill.LocationID, &bill.FranchiseID, &bill.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bill: %w", err)
	}
	bill.Direction = domain.BillDirection(direction)

	query, args, err = billItemsQuery(billID)
	if err != nil {
		return nil, fmt.Errorf("failed to build bill items query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill items: %w", err)
	}

	items, err := collect(rows, func(row pgx.Rows) (domain.LineItem, error) {
		var (
			item      domain.LineItem
			productID *int64
			product   domain.Product
		)
		err := row.Scan(
			&item.ProductVariantID, &item.Quantity, &item.Price,
			&item.QRCode, &item.VariantName,
			&productID, &product.Name, &product.Price, &product.FirstPrice,
			&product.FranchisePrice, &product.VIPFranchisePrice,
		)
		if err != nil {
			return item, fmt.Errorf("failed to scan bill item: %w", err)
		}
		item.Product = scanProduct(productID, &product)
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	bill.Items = items

	r.logger.DebugContext(ctx, "bill loaded",
		slog.Int64("bill_id", billID),
		slog.String("direction", direction),
		slog.Int("items", len(items)))

	return &bill, nil
}
