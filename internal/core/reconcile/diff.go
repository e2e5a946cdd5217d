// internal/core/reconcile/diff.go
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

func findRow(items []domain.LineItem, variantID int64) (domain.LineItem, bool) {
	for _, row := range items {
		if row.ProductVariantID == variantID {
			return row, true
		}
	}
	return domain.LineItem{}, false
}

// ComputeMissing lists what the exit bill shipped that the entry bill never
// received, in exit order. Missing rows are priced fresh at franchise_price.
// Exit rows without a product are skipped.
func ComputeMissing(entryItems, exitItems []domain.LineItem) []domain.LineItem {
	missing := make([]domain.LineItem, 0)
	for _, exit := range exitItems {
		if exit.Product == nil {
			continue
		}

		shortfall := exit.Quantity
		if entry, ok := findRow(entryItems, exit.ProductVariantID); ok {
			if entry.Quantity >= exit.Quantity {
				continue
			}
			shortfall = exit.Quantity - entry.Quantity
		}

		missing = append(missing, domain.LineItem{
			ProductVariantID: exit.ProductVariantID,
			Quantity:         shortfall,
			Price:            exit.Product.FranchisePrice * float64(shortfall),
			QRCode:           exit.QRCode,
			VariantName:      exit.VariantName,
			Product:          exit.Product,
		})
	}
	return missing
}

// ComputeExtra lists what the entry bill received beyond the exit bill, in
// entry order. Surplus rows are priced from the entry row's own total.
func ComputeExtra(entryItems, exitItems []domain.LineItem) []domain.LineItem {
	extra := make([]domain.LineItem, 0)
	for _, entry := range entryItems {
		if entry.Quantity <= 0 {
			continue
		}

		row := entry
		if exit, ok := findRow(exitItems, entry.ProductVariantID); ok {
			if entry.Quantity <= exit.Quantity {
				continue
			}
			surplus := entry.Quantity - exit.Quantity
			row.Quantity = surplus
			row.Price = entry.Price / float64(entry.Quantity) * float64(surplus)
		}
		extra = append(extra, row)
	}
	return extra
}

// Diff compares an entry bill with an exit bill.
func Diff(entry, exit domain.Bill) domain.DiffReport {
	report := domain.DiffReport{
		EntryBillID: entry.ID,
		ExitBillID:  exit.ID,
		Missing:     ComputeMissing(entry.Items, exit.Items),
		Extra:       ComputeExtra(entry.Items, exit.Items),
	}
	for _, row := range exit.Items {
		if row.Product == nil {
			report.UnpricedRows++
		}
	}
	report.MissingTotal = Total(report.Missing)
	report.ExtraTotal = Total(report.Extra)
	return report
}

// Total sums row prices rounded to cents.
func Total(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, row := range items {
		sum = sum.Add(decimal.NewFromFloat(row.Price))
	}
	return sum.Round(2)
}
