// internal/core/reconcile/aggregate.go
package reconcile

import "github.com/ammerola/franchise-reconcile/internal/core/domain"

// Strategy tells the generic aggregator how to build and grow one kind of row.
type Strategy[T any] struct {
	// VariantID returns the product variant a row belongs to.
	VariantID func(row T) int64
	// NewRow builds the first row for a matched item.
	NewRow func(item domain.InventoryItem, barcode string) T
	// Increment returns the row after one more scan of item.
	Increment func(row T, item domain.InventoryItem) T
	// Eligible, when set, rejects matched items the strategy cannot handle.
	Eligible func(item domain.InventoryItem) bool
}

// Result is the outcome of one scan. Items is a new slice unless Outcome is
// OutcomeNotFound, in which case it is the caller's slice untouched.
type Result[T any] struct {
	Items   []T
	Outcome domain.ScanOutcome
	// Item is the matched inventory item, zero when nothing matched.
	Item domain.InventoryItem
	// Unpriced is set when the barcode matched an item without a product.
	Unpriced bool
}

// Aggregate applies one scanned barcode to items. The input slice is never
// modified.
func Aggregate[T any](snapshot domain.Snapshot, barcode string, items []T, s Strategy[T]) Result[T] {
	item, ok := snapshot.Lookup(barcode)
	if !ok {
		return Result[T]{Items: items, Outcome: domain.OutcomeNotFound}
	}
	if s.Eligible != nil && !s.Eligible(item) {
		return Result[T]{Items: items, Outcome: domain.OutcomeNotFound, Item: item, Unpriced: true}
	}

	variantID := item.VariantID()
	for i, row := range items {
		if s.VariantID(row) != variantID {
			continue
		}
		next := make([]T, len(items))
		copy(next, items)
		next[i] = s.Increment(row, item)
		return Result[T]{Items: next, Outcome: domain.OutcomeIncremented, Item: item}
	}

	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	next = append(next, s.NewRow(item, barcode))
	return Result[T]{Items: next, Outcome: domain.OutcomeAdded, Item: item}
}

func hasProduct(item domain.InventoryItem) bool {
	return item.Product != nil
}

// BillStrategy accumulates a running line total priced by price.
func BillStrategy(price PriceFunc) Strategy[domain.LineItem] {
	return Strategy[domain.LineItem]{
		VariantID: func(row domain.LineItem) int64 { return row.ProductVariantID },
		NewRow: func(item domain.InventoryItem, barcode string) domain.LineItem {
			return domain.LineItem{
				ProductVariantID: item.VariantID(),
				Quantity:         1,
				Price:            price(*item.Product),
				QRCode:           barcode,
				VariantName:      item.DisplayName(),
			}
		},
		Increment: func(row domain.LineItem, item domain.InventoryItem) domain.LineItem {
			row.Quantity++
			row.Price += price(*item.Product)
			return row
		},
		Eligible: hasProduct,
	}
}

// SaleStrategy keeps a unit price per row and seeds a zero discount.
func SaleStrategy(price PriceFunc) Strategy[domain.SaleItem] {
	return Strategy[domain.SaleItem]{
		VariantID: func(row domain.SaleItem) int64 { return row.ProductVariantID },
		NewRow: func(item domain.InventoryItem, barcode string) domain.SaleItem {
			return domain.SaleItem{
				ProductVariantID: item.VariantID(),
				Quantity:         1,
				Price:            price(*item.Product),
				Discount:         0,
				QRCode:           barcode,
				VariantName:      item.DisplayName(),
			}
		},
		Increment: func(row domain.SaleItem, _ domain.InventoryItem) domain.SaleItem {
			row.Quantity++
			return row
		},
		Eligible: hasProduct,
	}
}

// BrokenItemStrategy counts units only.
func BrokenItemStrategy() Strategy[domain.BrokenItem] {
	return Strategy[domain.BrokenItem]{
		VariantID: func(row domain.BrokenItem) int64 { return row.ProductVariantID },
		NewRow: func(item domain.InventoryItem, barcode string) domain.BrokenItem {
			return domain.BrokenItem{
				ProductVariantID: item.VariantID(),
				Quantity:         1,
				QRCode:           barcode,
				VariantName:      item.DisplayName(),
			}
		},
		Increment: func(row domain.BrokenItem, _ domain.InventoryItem) domain.BrokenItem {
			row.Quantity++
			return row
		},
	}
}

// ScanSupplierBill aggregates an entry bill from a supplier at first_price.
func ScanSupplierBill(snapshot domain.Snapshot, barcode string, items []domain.LineItem) Result[domain.LineItem] {
	return Aggregate(snapshot, barcode, items, BillStrategy(SupplierPrice))
}

// ScanFranchiseBill aggregates a bill for a franchise at its normal or VIP price.
func ScanFranchiseBill(snapshot domain.Snapshot, barcode string, items []domain.LineItem, franchiseType domain.FranchiseType) Result[domain.LineItem] {
	return Aggregate(snapshot, barcode, items, BillStrategy(FranchisePrice(franchiseType)))
}

// ScanSale aggregates a sale. A nil override prices at retail.
func ScanSale(snapshot domain.Snapshot, barcode string, items []domain.SaleItem, override PriceFunc) Result[domain.SaleItem] {
	price := override
	if price == nil {
		price = RetailPrice
	}
	return Aggregate(snapshot, barcode, items, SaleStrategy(price))
}

// ScanBrokenItem aggregates a broken-item report.
func ScanBrokenItem(snapshot domain.Snapshot, barcode string, items []domain.BrokenItem) Result[domain.BrokenItem] {
	return Aggregate(snapshot, barcode, items, BrokenItemStrategy())
}

// RemoveRow returns items without the row for variantID.
func RemoveRow[T any](items []T, variantID int64, key func(T) int64) ([]T, bool) {
	for i, row := range items {
		if key(row) != variantID {
			continue
		}
		next := make([]T, 0, len(items)-1)
		next = append(next, items[:i]...)
		next = append(next, items[i+1:]...)
		return next, true
	}
	return items, false
}

// UpdateRow returns a copy of items with fn applied to the row for variantID.
func UpdateRow[T any](items []T, variantID int64, key func(T) int64, fn func(T) T) ([]T, bool) {
	for i, row := range items {
		if key(row) != variantID {
			continue
		}
		next := make([]T, len(items))
		copy(next, items)
		next[i] = fn(row)
		return next, true
	}
	return items, false
}
