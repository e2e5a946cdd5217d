// internal/adapters/db/queries.go
package db

import (
	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// productColumns select a nullable product as plain float columns. p.id stays
// nullable so a missing product can be told apart from a zero-priced one.
var productColumns = []string{
	"p.id",
	"COALESCE(p.name, '')",
	"COALESCE(p.price, 0)::float8",
	"COALESCE(p.first_price, 0)::float8",
	"COALESCE(p.franchise_price, 0)::float8",
	"COALESCE(p.vip_franchise_price, 0)::float8",
}

func snapshotQuery(locationID int64) (string, []interface{}, error) {
	cols := append([]string{
		"ii.id",
		"ii.product_variant_id",
		"ii.quantity",
		"pv.qr_code",
		"COALESCE(pv.color, '')",
		"COALESCE(pv.size, '')",
		"COALESCE(pv.name, '')",
	}, productColumns...)

	return psql.Select(cols...).
		From("inventory_items ii").
		Join("product_variants pv ON pv.id = ii.product_variant_id").
		LeftJoin("products p ON p.id = pv.product_id").
		Where(squirrel.Eq{"ii.location_id": locationID}).
		OrderBy("ii.id").
		ToSql()
}

func franchiseQuery(franchiseID int64) (string, []interface{}, error) {
	return psql.Select("id", "name", "franchise_type").
		From("franchises").
		Where(squirrel.Eq{"id": franchiseID}).
		ToSql()
}

func billQuery(billID int64) (string, []interface{}, error) {
	return psql.Select("id", "direction", "location_id", "franchise_id", "created_at").
		From("bills").
		Where(squirrel.Eq{"id": billID}).
		ToSql()
}

func billItemsQuery(billID int64) (string, []interface{}, error) {
	cols := append([]string{
		"bi.product_variant_id",
		"bi.quantity",
		"bi.price::float8",
		"COALESCE(bi.qr_code, pv.qr_code)",
		"COALESCE(bi.variant_name, pv.name, '')",
	}, productColumns...)

	return psql.Select(cols...).
		From("bill_items bi").
		Join("product_variants pv ON pv.id = bi.product_variant_id").
		LeftJoin("products p ON p.id = pv.product_id").
		Where(squirrel.Eq{"bi.bill_id": billID}).
		OrderBy("bi.position").
		ToSql()
}
