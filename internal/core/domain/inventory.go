// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"strings"
)

// FranchiseType selects which franchise price field applies to a product
type FranchiseType string

const (
	FranchiseNormal FranchiseType = "normal"
	FranchiseVIP    FranchiseType = "vip"
)

// IsValid reports whether the franchise type is a known pricing tier
func (t FranchiseType) IsValid() bool {
	return t == FranchiseNormal || t == FranchiseVIP
}

// Franchise is a franchise location with its pricing tier
type Franchise struct {
	ID            int64         `json:"ID"`
	Name          string        `json:"name"`
	FranchiseType FranchiseType `json:"franchise_type"`
}

// Product carries the price fields supplied by the backend. Amounts are plain
// numbers, in whatever unit the backend uses.
type Product struct {
	ID                int64   `json:"ID"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	FirstPrice        float64 `json:"first_price"`
	FranchisePrice    float64 `json:"franchise_price"`
	VIPFranchisePrice float64 `json:"vip_franchise_price,omitempty"`
}

// Validate checks that no price field is negative
func (p *Product) Validate() error {
	switch {
	case p.Price < 0:
		return fmt.Errorf("price cannot be negative")
	case p.FirstPrice < 0:
		return fmt.Errorf("first_price cannot be negative")
	case p.FranchisePrice < 0:
		return fmt.Errorf("franchise_price cannot be negative")
	case p.VIPFranchisePrice < 0:
		return fmt.Errorf("vip_franchise_price cannot be negative")
	}
	return nil
}

// ProductVariant is a specific color/size of a product
type ProductVariant struct {
	ID     int64  `json:"ID"`
	QRCode string `json:"qr_code"`
	Color  string `json:"color,omitempty"`
	Size   string `json:"size,omitempty"`
	Name   string `json:"name,omitempty"`
}

// InventoryItem is a stock-keeping unit within a location's inventory snapshot
type InventoryItem struct {
	ID               int64          `json:"ID"`
	ProductVariantID int64          `json:"product_variant_id"`
	QRCode           string         `json:"qr_code"`
	Quantity         int            `json:"quantity"`
	Product          *Product       `json:"product,omitempty"`
	ProductVariant   ProductVariant `json:"product_variant"`
}

// VariantID returns the variant key used to match line items
func (i InventoryItem) VariantID() int64 {
	if i.ProductVariantID != 0 {
		return i.ProductVariantID
	}
	return i.ProductVariant.ID
}

// DisplayName returns the variant name captured on line items at scan time.
func (i InventoryItem) DisplayName() string {
	if i.ProductVariant.Name != "" {
		return i.ProductVariant.Name
	}

	parts := make([]string, 0, 3)
	if i.Product != nil && i.Product.Name != "" {
		parts = append(parts, i.Product.Name)
	}
	if i.ProductVariant.Color != "" {
		parts = append(parts, i.ProductVariant.Color)
	}
	if i.ProductVariant.Size != "" {
		parts = append(parts, i.ProductVariant.Size)
	}
	if len(parts) == 0 {
		return i.ProductVariant.QRCode
	}
	return strings.Join(parts, " - ")
}

// Snapshot is the read-only inventory of one location, loaded once per session
type Snapshot []InventoryItem

// Lookup returns the item whose variant QR code equals barcode. A nil or empty
// snapshot, or an empty barcode, never matches.
func (s Snapshot) Lookup(barcode string) (InventoryItem, bool) {
	if len(s) == 0 || barcode == "" {
		return InventoryItem{}, false
	}
	for _, item := range s {
		if item.ProductVariant.QRCode == barcode {
			return item, true
		}
	}
	return InventoryItem{}, false
}
