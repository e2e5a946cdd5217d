package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/reconcile"
)

func billRow(variant int64, qty int, price float64, franchisePrice float64) domain.LineItem {
	return domain.LineItem{
		ProductVariantID: variant,
		Quantity:         qty,
		Price:            price,
		Product:          &domain.Product{ID: variant, FranchisePrice: franchisePrice},
	}
}

func TestComputeMissing(t *testing.T) {
	tests := []struct {
		name  string
		entry []domain.LineItem
		exit  []domain.LineItem
		want  []struct {
			variant int64
			qty     int
			price   float64
		}
	}{
		{
			name:  "shortfall_priced_fresh",
			entry: []domain.LineItem{billRow(1, 5, 500, 100)},
			exit:  []domain.LineItem{billRow(1, 8, 800, 100)},
			want: []struct {
				variant int64
				qty     int
				price   float64
			}{{1, 3, 300}},
		},
		{
			name:  "absent_from_entry",
			entry: []domain.LineItem{billRow(2, 1, 10, 10)},
			exit:  []domain.LineItem{billRow(1, 4, 999, 25)},
			want: []struct {
				variant int64
				qty     int
				price   float64
			}{{1, 4, 100}},
		},
		{
			name:  "entry_covers_exit",
			entry: []domain.LineItem{billRow(1, 8, 800, 100)},
			exit:  []domain.LineItem{billRow(1, 8, 800, 100)},
		},
		{
			name:  "entry_exceeds_exit",
			entry: []domain.LineItem{billRow(1, 9, 900, 100)},
			exit:  []domain.LineItem{billRow(1, 8, 800, 100)},
		},
		{
			name:  "empty_entry",
			entry: nil,
			exit:  []domain.LineItem{billRow(3, 2, 40, 20), billRow(1, 1, 5, 5)},
			want: []struct {
				variant int64
				qty     int
				price   float64
			}{{3, 2, 40}, {1, 1, 5}},
		},
		{
			name:  "exit_order_preserved",
			entry: []domain.LineItem{billRow(1, 1, 1, 1), billRow(2, 1, 1, 1)},
			exit:  []domain.LineItem{billRow(2, 3, 3, 1), billRow(1, 2, 2, 1)},
			want: []struct {
				variant int64
				qty     int
				price   float64
			}{{2, 2, 2}, {1, 1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.ComputeMissing(tt.entry, tt.exit)

			require.NotNil(t, got)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Equal(t, w.variant, got[i].ProductVariantID)
				assert.Equal(t, w.qty, got[i].Quantity)
				assert.Equal(t, w.price, got[i].Price)
			}
		})
	}
}

func TestComputeMissing_SkipsRowsWithoutProduct(t *testing.T) {
	exit := []domain.LineItem{
		{ProductVariantID: 1, Quantity: 4, Price: 40},
		billRow(2, 2, 20, 10),
	}

	got := reconcile.ComputeMissing(nil, exit)

	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ProductVariantID)
}

func TestComputeExtra(t *testing.T) {
	tests := []struct {
		name  string
		entry []domain.LineItem
		exit  []domain.LineItem
		want  []domain.LineItem
	}{
		{
			name:  "entry_short_of_exit",
			entry: []domain.LineItem{billRow(1, 5, 500, 100)},
			exit:  []domain.LineItem{billRow(1, 8, 800, 100)},
			want:  []domain.LineItem{},
		},
		{
			name:  "surplus_priced_from_entry_total",
			entry: []domain.LineItem{{ProductVariantID: 1, Quantity: 4, Price: 120, QRCode: "Q1"}},
			exit:  []domain.LineItem{{ProductVariantID: 1, Quantity: 1, Price: 999}},
			want:  []domain.LineItem{{ProductVariantID: 1, Quantity: 3, Price: 90, QRCode: "Q1"}},
		},
		{
			name:  "absent_from_exit_keeps_full_row",
			entry: []domain.LineItem{{ProductVariantID: 7, Quantity: 2, Price: 33.3, VariantName: "Cap"}},
			exit:  nil,
			want:  []domain.LineItem{{ProductVariantID: 7, Quantity: 2, Price: 33.3, VariantName: "Cap"}},
		},
		{
			name: "entry_order_preserved",
			entry: []domain.LineItem{
				{ProductVariantID: 3, Quantity: 1, Price: 3},
				{ProductVariantID: 1, Quantity: 2, Price: 2},
				{ProductVariantID: 2, Quantity: 1, Price: 1},
			},
			exit: []domain.LineItem{{ProductVariantID: 2, Quantity: 1, Price: 1}},
			want: []domain.LineItem{
				{ProductVariantID: 3, Quantity: 1, Price: 3},
				{ProductVariantID: 1, Quantity: 2, Price: 2},
			},
		},
		{
			name:  "zero_quantity_entry_skipped",
			entry: []domain.LineItem{{ProductVariantID: 1, Quantity: 0, Price: 10}},
			want:  []domain.LineItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.ComputeExtra(tt.entry, tt.exit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeExtra_DoesNotMutateInput(t *testing.T) {
	entry := []domain.LineItem{{ProductVariantID: 1, Quantity: 4, Price: 120}}
	exit := []domain.LineItem{{ProductVariantID: 1, Quantity: 1}}

	_ = reconcile.ComputeExtra(entry, exit)

	assert.Equal(t, 4, entry[0].Quantity)
	assert.Equal(t, 120.0, entry[0].Price)
}

func TestDiff(t *testing.T) {
	entry := domain.Bill{ID: 10, Direction: domain.BillEntry, Items: []domain.LineItem{
		billRow(1, 5, 500, 100),
		billRow(2, 3, 90, 30),
	}}
	exit := domain.Bill{ID: 11, Direction: domain.BillExit, Items: []domain.LineItem{
		billRow(1, 8, 800, 100),
		billRow(2, 1, 30, 30),
		{ProductVariantID: 9, Quantity: 2},
	}}

	report := reconcile.Diff(entry, exit)

	assert.Equal(t, int64(10), report.EntryBillID)
	assert.Equal(t, int64(11), report.ExitBillID)
	require.Len(t, report.Missing, 1)
	require.Len(t, report.Extra, 1)
	assert.Equal(t, 3, report.Missing[0].Quantity)
	assert.Equal(t, 2, report.Extra[0].Quantity)
	assert.True(t, decimal.NewFromInt(300).Equal(report.MissingTotal))
	assert.True(t, decimal.NewFromInt(60).Equal(report.ExtraTotal))
	assert.Equal(t, 1, report.UnpricedRows)
	assert.False(t, report.Balanced())
}

func TestTotal(t *testing.T) {
	items := []domain.LineItem{{Price: 0.1}, {Price: 0.2}, {Price: 10.005}}

	assert.Equal(t, "10.31", reconcile.Total(items).StringFixed(2))
	assert.True(t, reconcile.Total(nil).IsZero())
}
