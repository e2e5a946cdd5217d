package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

func snapshotOf(codes ...string) domain.Snapshot {
	snap := make(domain.Snapshot, 0, len(codes))
	for i, code := range codes {
		id := int64(i + 1)
		snap = append(snap, domain.InventoryItem{
			ID:               id,
			ProductVariantID: id,
			QRCode:           code,
			ProductVariant:   domain.ProductVariant{ID: id, QRCode: code},
			Product:          &domain.Product{ID: id, Name: "Product " + code},
		})
	}
	return snap
}

func TestSnapshot_Lookup(t *testing.T) {
	tests := []struct {
		name      string
		snapshot  domain.Snapshot
		barcode   string
		wantFound bool
		wantID    int64
	}{
		{name: "match_first", snapshot: snapshotOf("A1", "B2"), barcode: "A1", wantFound: true, wantID: 1},
		{name: "match_last", snapshot: snapshotOf("A1", "B2", "C3"), barcode: "C3", wantFound: true, wantID: 3},
		{name: "unknown_code", snapshot: snapshotOf("A1"), barcode: "UNKNOWN"},
		{name: "nil_snapshot", snapshot: nil, barcode: "A1"},
		{name: "empty_snapshot", snapshot: domain.Snapshot{}, barcode: "A1"},
		{name: "empty_barcode", snapshot: snapshotOf("A1"), barcode: ""},
		{name: "case_sensitive", snapshot: snapshotOf("abc"), barcode: "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, found := tt.snapshot.Lookup(tt.barcode)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantID, item.ProductVariantID)
			}
		})
	}
}

func TestSnapshot_Lookup_Idempotent(t *testing.T) {
	snap := snapshotOf("A1", "B2")

	first, ok1 := snap.Lookup("B2")
	second, ok2 := snap.Lookup("B2")

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestSnapshot_Lookup_MatchesVariantCode(t *testing.T) {
	snap := domain.Snapshot{{
		ProductVariantID: 7,
		QRCode:           "STALE",
		ProductVariant:   domain.ProductVariant{ID: 7, QRCode: "FRESH"},
	}}

	_, found := snap.Lookup("STALE")
	assert.False(t, found)

	item, found := snap.Lookup("FRESH")
	require.True(t, found)
	assert.Equal(t, int64(7), item.ProductVariantID)
}

func TestInventoryItem_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		item domain.InventoryItem
		want string
	}{
		{
			name: "variant_name_wins",
			item: domain.InventoryItem{
				Product:        &domain.Product{Name: "Shirt"},
				ProductVariant: domain.ProductVariant{Name: "Shirt Red M", Color: "Red", Size: "M"},
			},
			want: "Shirt Red M",
		},
		{
			name: "product_color_size",
			item: domain.InventoryItem{
				Product:        &domain.Product{Name: "Shirt"},
				ProductVariant: domain.ProductVariant{Color: "Red", Size: "M"},
			},
			want: "Shirt - Red - M",
		},
		{
			name: "no_product",
			item: domain.InventoryItem{ProductVariant: domain.ProductVariant{Size: "XL"}},
			want: "XL",
		},
		{
			name: "falls_back_to_code",
			item: domain.InventoryItem{ProductVariant: domain.ProductVariant{QRCode: "QR-1"}},
			want: "QR-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.DisplayName())
		})
	}
}

func TestProduct_Validate(t *testing.T) {
	assert.NoError(t, (&domain.Product{Price: 1, FirstPrice: 1, FranchisePrice: 1}).Validate())
	assert.EqualError(t, (&domain.Product{FranchisePrice: -1}).Validate(), "franchise_price cannot be negative")
	assert.EqualError(t, (&domain.Product{VIPFranchisePrice: -5}).Validate(), "vip_franchise_price cannot be negative")
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.DocumentKind
		location int64
		fr       *domain.Franchise
		wantErr  string
	}{
		{name: "supplier_bill", kind: domain.KindSupplierBill, location: 1},
		{name: "franchise_bill", kind: domain.KindFranchiseBill, location: 1, fr: &domain.Franchise{ID: 3, FranchiseType: domain.FranchiseVIP}},
		{name: "unknown_kind", kind: "refund", location: 1, wantErr: "invalid document kind"},
		{name: "missing_location", kind: domain.KindSale, wantErr: "location_id must be positive"},
		{name: "franchise_required", kind: domain.KindFranchiseBill, location: 1, wantErr: "franchise is required"},
		{name: "bad_franchise_type", kind: domain.KindFranchiseBill, location: 1, fr: &domain.Franchise{ID: 3, FranchiseType: "gold"}, wantErr: "invalid franchise_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := domain.NewDraft(tt.kind, tt.location, tt.fr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, d.ID)
			assert.Equal(t, d.CreatedAt, d.UpdatedAt)
			assert.Zero(t, d.LineCount())
		})
	}
}

func TestDraft_Submission(t *testing.T) {
	d, err := domain.NewDraft(domain.KindFranchiseBill, 4, &domain.Franchise{ID: 9, FranchiseType: domain.FranchiseNormal})
	require.NoError(t, err)
	d.BillItems = []domain.LineItem{{ProductVariantID: 1, Quantity: 2, Price: 20}}

	sub := d.Submission()

	assert.Equal(t, d.ID, sub.DraftID)
	require.NotNil(t, sub.FranchiseID)
	assert.Equal(t, int64(9), *sub.FranchiseID)
	assert.Len(t, sub.BillItems, 1)
	assert.Equal(t, 1, d.LineCount())
}
