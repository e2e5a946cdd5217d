// internal/core/domain/document.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies which scan workflow a draft belongs to
type DocumentKind string

const (
	KindSupplierBill  DocumentKind = "supplier_bill"
	KindFranchiseBill DocumentKind = "franchise_bill"
	KindSale          DocumentKind = "sale"
	KindBrokenItems   DocumentKind = "broken_items"
)

// IsValid reports whether k is a known document kind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindSupplierBill, KindFranchiseBill, KindSale, KindBrokenItems:
		return true
	}
	return false
}

// ScanOutcome is the discriminated result of one barcode scan
type ScanOutcome string

const (
	OutcomeAdded       ScanOutcome = "added"
	OutcomeIncremented ScanOutcome = "incremented"
	OutcomeNotFound    ScanOutcome = "not_found"
)

// Changed reports whether the outcome produced a new line-item list
func (o ScanOutcome) Changed() bool {
	return o == OutcomeAdded || o == OutcomeIncremented
}

// LineItem is a row of a bill. Price is the running total of the row, not a
// unit price.
type LineItem struct {
	ProductVariantID int64    `json:"product_variant_id"`
	Quantity         int      `json:"quantity"`
	Price            float64  `json:"price"`
	QRCode           string   `json:"qr_code,omitempty"`
	VariantName      string   `json:"variant_name,omitempty"`
	Product          *Product `json:"product,omitempty"`
}

// SaleItem is a row of a sale. Price is a unit price; Discount applies separately.
type SaleItem struct {
	ProductVariantID int64   `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
	Discount         float64 `json:"discount"`
	QRCode           string  `json:"qr_code,omitempty"`
	VariantName      string  `json:"variant_name,omitempty"`
}

// BrokenItem is a row of a broken-item report
type BrokenItem struct {
	ProductVariantID int64  `json:"product_variant_id"`
	Quantity         int    `json:"quantity"`
	Reason           string `json:"reason,omitempty"`
	QRCode           string `json:"qr_code,omitempty"`
	VariantName      string `json:"variant_name,omitempty"`
}

// Draft is an in-progress document. Only the slice matching Kind is used.
type Draft struct {
	ID          uuid.UUID    `json:"id"`
	Kind        DocumentKind `json:"kind"`
	LocationID  int64        `json:"location_id"`
	Franchise   *Franchise   `json:"franchise,omitempty"`
	BillItems   []LineItem   `json:"bill_items,omitempty"`
	SaleItems   []SaleItem   `json:"sale_items,omitempty"`
	BrokenItems []BrokenItem `json:"broken_items,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewDraft creates an empty draft
func NewDraft(kind DocumentKind, locationID int64, franchise *Franchise) (*Draft, error) {
	d := &Draft{
		ID:         uuid.New(),
		Kind:       kind,
		LocationID: locationID,
		Franchise:  franchise,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	return d, nil
}

// Validate checks the draft header
func (d *Draft) Validate() error {
	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentKind, d.Kind)
	}
	if d.LocationID <= 0 {
		return fmt.Errorf("location_id must be positive")
	}
	if d.Kind == KindFranchiseBill {
		if d.Franchise == nil {
			return fmt.Errorf("franchise is required for %s", d.Kind)
		}
		if !d.Franchise.FranchiseType.IsValid() {
			return fmt.Errorf("invalid franchise_type %q", d.Franchise.FranchiseType)
		}
	}
	return nil
}

// LineCount returns the number of rows in the draft's active list
func (d *Draft) LineCount() int {
	switch d.Kind {
	case KindSupplierBill, KindFranchiseBill:
		return len(d.BillItems)
	case KindSale:
		return len(d.SaleItems)
	case KindBrokenItems:
		return len(d.BrokenItems)
	}
	return 0
}

// Submission is the finished document handed to the backend
type Submission struct {
	DraftID     uuid.UUID    `json:"draft_id"`
	Kind        DocumentKind `json:"kind"`
	LocationID  int64        `json:"location_id"`
	FranchiseID *int64       `json:"franchise_id,omitempty"`
	BillItems   []LineItem   `json:"bill_items,omitempty"`
	SaleItems   []SaleItem   `json:"sale_items,omitempty"`
	BrokenItems []BrokenItem `json:"broken_items,omitempty"`
}

// Submission converts the draft into its submitted form
func (d *Draft) Submission() Submission {
	s := Submission{
		DraftID:     d.ID,
		Kind:        d.Kind,
		LocationID:  d.LocationID,
		BillItems:   d.BillItems,
		SaleItems:   d.SaleItems,
		BrokenItems: d.BrokenItems,
	}
	if d.Franchise != nil {
		id := d.Franchise.ID
		s.FranchiseID = &id
	}
	return s
}

// BillDirection tells whether a bill records goods received or shipped
type BillDirection string

const (
	BillEntry BillDirection = "entry"
	BillExit  BillDirection = "exit"
)

// Bill is a submitted bill as read back from the backend's store
type Bill struct {
	ID          int64         `json:"ID"`
	Direction   BillDirection `json:"direction"`
	LocationID  int64         `json:"location_id"`
	FranchiseID *int64        `json:"franchise_id,omitempty"`
	Items       []LineItem    `json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
}
