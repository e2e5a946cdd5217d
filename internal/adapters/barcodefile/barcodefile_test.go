package barcodefile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/franchise-reconcile/internal/adapters/barcodefile"
)

func TestIsBarcode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"4006381333931", true},
		{"QR-000123", true},
		{"ab1", true},
		{"Total", false},
		{"12", false},
		{"", false},
		{"-12345", false},
		{"has space 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, barcodefile.IsBarcode(tt.in))
		})
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "one_code_per_line",
			lines: []string{"ABC123", "XYZ789"},
			want:  []string{"ABC123", "XYZ789"},
		},
		{
			name:  "quantity_column_expands",
			lines: []string{"ABC123 3", "XYZ789 x2"},
			want:  []string{"ABC123", "ABC123", "ABC123", "XYZ789", "XYZ789"},
		},
		{
			name:  "prose_and_blank_lines_skipped",
			lines: []string{"Delivery note", "", "   ", "ABC123 shirt red"},
			want:  []string{"ABC123"},
		},
		{
			name:  "order_preserved_with_repeats",
			lines: []string{"B111", "A222", "B111"},
			want:  []string{"B111", "A222", "B111"},
		},
		{
			name:  "nothing_recognised",
			lines: []string{"Signature", "Date"},
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, barcodefile.ParseLines(tt.lines))
		})
	}
}

func workbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Codes")
	require.NoError(t, err)
	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestReadXLSXBytes(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []string
	}{
		{
			name: "header_skipped",
			rows: [][]string{{"Barcode", "Qty"}, {"ABC123", "2"}, {"XYZ789"}},
			want: []string{"ABC123", "ABC123", "XYZ789"},
		},
		{
			name: "no_header",
			rows: [][]string{{"ABC123"}, {""}, {"XYZ789", "1"}},
			want: []string{"ABC123", "XYZ789"},
		},
		{
			name: "non_numeric_quantity_counts_once",
			rows: [][]string{{"ABC123", "red"}},
			want: []string{"ABC123"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := barcodefile.ReadXLSXBytes(workbook(t, tt.rows))
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestReadXLSX_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.xlsx")
	require.NoError(t, os.WriteFile(path, workbook(t, [][]string{{"QR-1"}}), 0o600))

	codes, err := barcodefile.ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"QR-1"}, codes)
}

func TestRead_InvalidFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken")
	require.NoError(t, os.WriteFile(path, []byte("not a document"), 0o600))

	_, err := barcodefile.ReadXLSX(path)
	assert.Error(t, err)

	_, err = barcodefile.ReadPDF(path)
	assert.Error(t, err)
}
