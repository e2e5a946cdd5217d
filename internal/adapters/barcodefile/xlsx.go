package barcodefile

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx/v3"
)

// ReadXLSX returns the codes in the first column of the first sheet. A
// header row is skipped and the second column, when numeric, is a quantity.
func ReadXLSX(path string) ([]string, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	return readSheets(file)
}

// ReadXLSXBytes is ReadXLSX for an in-memory workbook
func ReadXLSXBytes(data []byte) ([]string, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	return readSheets(file)
}

func readSheets(file *xlsx.File) ([]string, error) {
	if len(file.Sheets) == 0 {
		return nil, nil
	}

	var codes []string
	first := true
	err := file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		code := cellString(r, 0)
		if first {
			first = false
			if isHeader(code) {
				return nil
			}
		}
		if code == "" {
			return nil
		}
		n := 1
		if q := cellString(r, 1); q != "" {
			n = quantity(q)
		}
		codes = expand(codes, code, n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return codes, nil
}

func cellString(r *xlsx.Row, i int) string {
	c := r.GetCell(i)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.String())
}
