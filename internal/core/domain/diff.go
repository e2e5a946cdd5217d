// internal/core/domain/diff.go
package domain

import "github.com/shopspring/decimal"

// DiffReport compares an entry bill with an exit bill
type DiffReport struct {
	EntryBillID  int64           `json:"entry_bill_id"`
	ExitBillID   int64           `json:"exit_bill_id"`
	Missing      []LineItem      `json:"missing"`
	Extra        []LineItem      `json:"extra"`
	MissingTotal decimal.Decimal `json:"missing_total"`
	ExtraTotal   decimal.Decimal `json:"extra_total"`
	// UnpricedRows counts exit rows skipped because they had no product
	UnpricedRows int `json:"unpriced_rows"`
}

// Balanced reports whether the two bills matched exactly
func (r *DiffReport) Balanced() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}
