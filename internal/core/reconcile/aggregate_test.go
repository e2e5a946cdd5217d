package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/reconcile"
)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		{
			ID:               1,
			ProductVariantID: 42,
			QRCode:           "ABC123",
			Product:          &domain.Product{ID: 7, Name: "Linen Shirt", Price: 900, FirstPrice: 300, FranchisePrice: 500, VIPFranchisePrice: 700},
			ProductVariant:   domain.ProductVariant{ID: 42, QRCode: "ABC123", Color: "White", Size: "L"},
		},
		{
			ID:               2,
			ProductVariantID: 43,
			QRCode:           "DIME",
			Product:          &domain.Product{ID: 8, Name: "Sticker", Price: 0.1, FirstPrice: 0.1, FranchisePrice: 0.1},
			ProductVariant:   domain.ProductVariant{ID: 43, QRCode: "DIME", Name: "Sticker Pack"},
		},
		{
			ID:               3,
			ProductVariantID: 44,
			QRCode:           "ORPHAN",
			ProductVariant:   domain.ProductVariant{ID: 44, QRCode: "ORPHAN", Name: "Unpriced"},
		},
	}
}

func TestScanFranchiseBill_EndToEnd(t *testing.T) {
	tests := []struct {
		name          string
		franchiseType domain.FranchiseType
		wantPrice     float64
	}{
		{name: "normal_franchise", franchiseType: domain.FranchiseNormal, wantPrice: 1500},
		{name: "vip_franchise", franchiseType: domain.FranchiseVIP, wantPrice: 2100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			var items []domain.LineItem

			outcomes := make([]domain.ScanOutcome, 0, 3)
			for i := 0; i < 3; i++ {
				res := reconcile.ScanFranchiseBill(snap, "ABC123", items, tt.franchiseType)
				items = res.Items
				outcomes = append(outcomes, res.Outcome)
			}

			assert.Equal(t, []domain.ScanOutcome{
				domain.OutcomeAdded, domain.OutcomeIncremented, domain.OutcomeIncremented,
			}, outcomes)
			require.Len(t, items, 1)
			assert.Equal(t, int64(42), items[0].ProductVariantID)
			assert.Equal(t, 3, items[0].Quantity)
			assert.Equal(t, tt.wantPrice, items[0].Price)
			assert.Equal(t, "ABC123", items[0].QRCode)
			assert.Equal(t, "Linen Shirt - White - L", items[0].VariantName)
		})
	}
}

func TestScanSupplierBill_UsesFirstPrice(t *testing.T) {
	res := reconcile.ScanSupplierBill(testSnapshot(), "ABC123", nil)

	require.Equal(t, domain.OutcomeAdded, res.Outcome)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 300.0, res.Items[0].Price)
	assert.Equal(t, int64(42), res.Item.ProductVariantID)
}

func TestAggregate_QuantityAccumulation(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		var items []domain.LineItem
		for i := 0; i < n; i++ {
			items = reconcile.ScanSupplierBill(testSnapshot(), "ABC123", items).Items
		}
		require.Len(t, items, 1)
		assert.Equal(t, n, items[0].Quantity)
	}
}

func TestAggregate_RunningTotalIsRepeatedAddition(t *testing.T) {
	unit := 0.1
	var want float64
	for i := 0; i < 3; i++ {
		want += unit
	}

	var items []domain.LineItem
	for i := 0; i < 3; i++ {
		items = reconcile.ScanSupplierBill(testSnapshot(), "DIME", items).Items
	}

	require.Len(t, items, 1)
	assert.Equal(t, want, items[0].Price)
	assert.NotEqual(t, 0.3, items[0].Price)
}

func TestAggregate_NotFoundLeavesItemsUnchanged(t *testing.T) {
	items := []domain.LineItem{{ProductVariantID: 42, Quantity: 2, Price: 1000, QRCode: "ABC123"}}
	original := append([]domain.LineItem(nil), items...)

	res := reconcile.ScanFranchiseBill(testSnapshot(), "UNKNOWN", items, domain.FranchiseNormal)

	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
	assert.Equal(t, original, res.Items)
	assert.False(t, res.Unpriced)
	assert.Zero(t, res.Item)
}

func TestAggregate_MalformedSnapshot(t *testing.T) {
	items := []domain.LineItem{{ProductVariantID: 1, Quantity: 1}}

	for _, snap := range []domain.Snapshot{nil, {}} {
		res := reconcile.ScanSupplierBill(snap, "ABC123", items)
		assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
		assert.Equal(t, items, res.Items)
	}
}

func TestAggregate_UnpricedItem(t *testing.T) {
	res := reconcile.ScanFranchiseBill(testSnapshot(), "ORPHAN", nil, domain.FranchiseVIP)

	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
	assert.True(t, res.Unpriced)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(44), res.Item.ProductVariantID)

	broken := reconcile.ScanBrokenItem(testSnapshot(), "ORPHAN", nil)
	assert.Equal(t, domain.OutcomeAdded, broken.Outcome)
}

func TestAggregate_CopyOnWrite(t *testing.T) {
	t.Run("added_path_allocates", func(t *testing.T) {
		items := make([]domain.LineItem, 1, 8)
		items[0] = domain.LineItem{ProductVariantID: 43, Quantity: 1, Price: 0.1}

		res := reconcile.ScanSupplierBill(testSnapshot(), "ABC123", items)

		require.Equal(t, domain.OutcomeAdded, res.Outcome)
		require.Len(t, res.Items, 2)
		assert.Len(t, items, 1)
		assert.NotSame(t, &items[0], &res.Items[0])

		res.Items[0].Quantity = 99
		assert.Equal(t, 1, items[0].Quantity)
		assert.Zero(t, items[:2][1])
	})

	t.Run("incremented_path_allocates", func(t *testing.T) {
		items := []domain.LineItem{
			{ProductVariantID: 43, Quantity: 1, Price: 0.1},
			{ProductVariantID: 42, Quantity: 1, Price: 300},
		}

		res := reconcile.ScanSupplierBill(testSnapshot(), "ABC123", items)

		require.Equal(t, domain.OutcomeIncremented, res.Outcome)
		assert.Equal(t, 1, items[1].Quantity)
		assert.Equal(t, 300.0, items[1].Price)
		assert.Equal(t, 2, res.Items[1].Quantity)
		assert.Equal(t, 600.0, res.Items[1].Price)
		assert.Equal(t, items[0], res.Items[0])
		assert.NotSame(t, &items[0], &res.Items[0])
	})
}

func TestAggregate_OneRowPerVariant(t *testing.T) {
	var items []domain.LineItem
	for _, code := range []string{"ABC123", "DIME", "ABC123", "DIME", "ABC123"} {
		items = reconcile.ScanSupplierBill(testSnapshot(), code, items).Items
	}

	require.Len(t, items, 2)
	assert.Equal(t, int64(42), items[0].ProductVariantID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, int64(43), items[1].ProductVariantID)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestScanSale(t *testing.T) {
	t.Run("retail_unit_price_and_zero_discount", func(t *testing.T) {
		var items []domain.SaleItem
		for i := 0; i < 2; i++ {
			items = reconcile.ScanSale(testSnapshot(), "ABC123", items, nil).Items
		}

		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 900.0, items[0].Price)
		assert.Zero(t, items[0].Discount)
	})

	t.Run("override_price", func(t *testing.T) {
		res := reconcile.ScanSale(testSnapshot(), "ABC123", nil, reconcile.FranchisePrice(domain.FranchiseVIP))

		require.Len(t, res.Items, 1)
		assert.Equal(t, 700.0, res.Items[0].Price)
	})

	t.Run("keeps_existing_discount", func(t *testing.T) {
		items := []domain.SaleItem{{ProductVariantID: 42, Quantity: 1, Price: 900, Discount: 50}}

		res := reconcile.ScanSale(testSnapshot(), "ABC123", items, nil)

		assert.Equal(t, domain.OutcomeIncremented, res.Outcome)
		assert.Equal(t, 50.0, res.Items[0].Discount)
		assert.Equal(t, 1, items[0].Quantity)
	})
}

func TestScanBrokenItem(t *testing.T) {
	items := []domain.BrokenItem{{ProductVariantID: 42, Quantity: 1, Reason: "torn seam"}}

	res := reconcile.ScanBrokenItem(testSnapshot(), "ABC123", items)

	require.Equal(t, domain.OutcomeIncremented, res.Outcome)
	assert.Equal(t, 2, res.Items[0].Quantity)
	assert.Equal(t, "torn seam", res.Items[0].Reason)

	res = reconcile.ScanBrokenItem(testSnapshot(), "DIME", res.Items)
	require.Equal(t, domain.OutcomeAdded, res.Outcome)
	assert.Equal(t, "Sticker Pack", res.Items[1].VariantName)
	assert.Empty(t, res.Items[1].Reason)
}

func TestRemoveRow(t *testing.T) {
	key := func(r domain.BrokenItem) int64 { return r.ProductVariantID }
	items := []domain.BrokenItem{{ProductVariantID: 1}, {ProductVariantID: 2}, {ProductVariantID: 3}}

	next, ok := reconcile.RemoveRow(items, 2, key)
	require.True(t, ok)
	assert.Equal(t, []domain.BrokenItem{{ProductVariantID: 1}, {ProductVariantID: 3}}, next)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(2), items[1].ProductVariantID)

	same, ok := reconcile.RemoveRow(items, 9, key)
	assert.False(t, ok)
	assert.Equal(t, items, same)
}

func TestUpdateRow(t *testing.T) {
	key := func(r domain.BrokenItem) int64 { return r.ProductVariantID }
	items := []domain.BrokenItem{{ProductVariantID: 1}, {ProductVariantID: 2}}

	next, ok := reconcile.UpdateRow(items, 2, key, func(r domain.BrokenItem) domain.BrokenItem {
		r.Reason = "water damage"
		return r
	})

	require.True(t, ok)
	assert.Equal(t, "water damage", next[1].Reason)
	assert.Empty(t, items[1].Reason)

	_, ok = reconcile.UpdateRow(items, 5, key, func(r domain.BrokenItem) domain.BrokenItem { return r })
	assert.False(t, ok)
}
