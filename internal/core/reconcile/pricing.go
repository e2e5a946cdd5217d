// internal/core/reconcile/pricing.go
package reconcile

import "github.com/ammerola/franchise-reconcile/internal/core/domain"

// PriceContext selects which product price field applies
type PriceContext int

const (
	// ContextFranchise prices by the franchise tier (normal or VIP)
	ContextFranchise PriceContext = iota
	// ContextSupplier prices at acquisition cost
	ContextSupplier
	// ContextRetail prices at the shelf price
	ContextRetail
)

func (c PriceContext) String() string {
	switch c {
	case ContextFranchise:
		return "franchise"
	case ContextSupplier:
		return "supplier"
	case ContextRetail:
		return "retail"
	}
	return "unknown"
}

// ResolvePrice returns the unit price of product in the given context. The
// franchise type only matters for ContextFranchise.
func ResolvePrice(product domain.Product, ctx PriceContext, franchiseType domain.FranchiseType) float64 {
	switch ctx {
	case ContextSupplier:
		return product.FirstPrice
	case ContextRetail:
		return product.Price
	default:
		if franchiseType == domain.FranchiseVIP && product.VIPFranchisePrice != 0 {
			return product.VIPFranchisePrice
		}
		return product.FranchisePrice
	}
}

// PriceFunc is a unit-price strategy handed to the aggregator
type PriceFunc func(product domain.Product) float64

// FranchisePrice prices at the tier of the given franchise type
func FranchisePrice(franchiseType domain.FranchiseType) PriceFunc {
	return func(product domain.Product) float64 {
		return ResolvePrice(product, ContextFranchise, franchiseType)
	}
}

// SupplierPrice prices at first_price
func SupplierPrice(product domain.Product) float64 {
	return ResolvePrice(product, ContextSupplier, "")
}

// RetailPrice prices at the product's retail price
func RetailPrice(product domain.Product) float64 {
	return ResolvePrice(product, ContextRetail, "")
}
