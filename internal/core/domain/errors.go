// internal/core/domain/errors.go
package domain

import "errors"

var (
	// ErrUnrecognizedBarcode means a scanned code matched nothing in the snapshot
	ErrUnrecognizedBarcode = errors.New("unrecognized barcode")
	// ErrMissingPricingData means a matched item has no product to price it with
	ErrMissingPricingData = errors.New("missing pricing data")

	ErrDraftNotFound       = errors.New("draft not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrFranchiseNotFound   = errors.New("franchise not found")
	ErrLineItemNotFound    = errors.New("line item not found")
	ErrEmptyDraft          = errors.New("draft has no line items")
	ErrInvalidDocumentKind = errors.New("invalid document kind")
	ErrBillDirection       = errors.New("bill has the wrong direction")
	// ErrKindMismatch means a row edit does not apply to the draft's document kind
	ErrKindMismatch = errors.New("operation does not apply to this document kind")
	// ErrDraftConflict means concurrent writers kept a draft update from committing
	ErrDraftConflict = errors.New("draft is being modified concurrently")
)
