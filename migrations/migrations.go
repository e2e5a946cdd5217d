// Package migrations embeds the SQL schema of the bill and inventory read model.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
