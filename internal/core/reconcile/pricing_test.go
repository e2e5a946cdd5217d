package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/reconcile"
)

func TestResolvePrice(t *testing.T) {
	product := domain.Product{Price: 250, FirstPrice: 60, FranchisePrice: 100, VIPFranchisePrice: 150}
	noVIP := domain.Product{Price: 250, FirstPrice: 60, FranchisePrice: 100}

	tests := []struct {
		name          string
		product       domain.Product
		ctx           reconcile.PriceContext
		franchiseType domain.FranchiseType
		want          float64
	}{
		{name: "vip_franchise", product: product, ctx: reconcile.ContextFranchise, franchiseType: domain.FranchiseVIP, want: 150},
		{name: "normal_franchise", product: product, ctx: reconcile.ContextFranchise, franchiseType: domain.FranchiseNormal, want: 100},
		{name: "vip_without_vip_price", product: noVIP, ctx: reconcile.ContextFranchise, franchiseType: domain.FranchiseVIP, want: 100},
		{name: "unknown_type_uses_normal", product: product, ctx: reconcile.ContextFranchise, franchiseType: "", want: 100},
		{name: "supplier_ignores_vip", product: product, ctx: reconcile.ContextSupplier, franchiseType: domain.FranchiseVIP, want: 60},
		{name: "retail", product: product, ctx: reconcile.ContextRetail, want: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconcile.ResolvePrice(tt.product, tt.ctx, tt.franchiseType))
		})
	}
}

func TestPriceFuncs(t *testing.T) {
	product := domain.Product{Price: 9.5, FirstPrice: 3, FranchisePrice: 5, VIPFranchisePrice: 7}

	assert.Equal(t, 7.0, reconcile.FranchisePrice(domain.FranchiseVIP)(product))
	assert.Equal(t, 5.0, reconcile.FranchisePrice(domain.FranchiseNormal)(product))
	assert.Equal(t, 3.0, reconcile.SupplierPrice(product))
	assert.Equal(t, 9.5, reconcile.RetailPrice(product))
}

func TestPriceContext_String(t *testing.T) {
	assert.Equal(t, "franchise", reconcile.ContextFranchise.String())
	assert.Equal(t, "supplier", reconcile.ContextSupplier.String())
	assert.Equal(t, "retail", reconcile.ContextRetail.String())
	assert.Equal(t, "unknown", reconcile.PriceContext(42).String())
}
