// internal/adapters/export/xlsx.go
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const moneyFormat = "#,##0.00"

var itemHeaders = []string{"Variant ID", "Name", "Barcode", "Quantity", "Amount"}

// Filename returns the download name of a diff report
func Filename(report domain.DiffReport) string {
	return fmt.Sprintf("reconcile-%d-%d.xlsx", report.EntryBillID, report.ExitBillID)
}

// WriteDiffReport renders a diff report as a workbook with a summary sheet
// and one sheet each for missing and extra rows
func WriteDiffReport(w io.Writer, report domain.DiffReport) error {
	file := xlsx.NewFile()

	if err := addSummary(file, report); err != nil {
		return err
	}
	if err := addItems(file, "Missing", report.Missing); err != nil {
		return err
	}
	if err := addItems(file, "Extra", report.Extra); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// DiffReportBytes renders a diff report in memory
func DiffReportBytes(report domain.DiffReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDiffReport(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addSummary(file *xlsx.File, report domain.DiffReport) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	status := "Unbalanced"
	if report.Balanced() {
		status = "Balanced"
	}

	rows := []struct {
		label string
		set   func(*xlsx.Cell)
	}{
		{"Entry bill", func(c *xlsx.Cell) { c.SetInt64(report.EntryBillID) }},
		{"Exit bill", func(c *xlsx.Cell) { c.SetInt64(report.ExitBillID) }},
		{"Status", func(c *xlsx.Cell) { c.SetString(status) }},
		{"Missing rows", func(c *xlsx.Cell) { c.SetInt(len(report.Missing)) }},
		{"Missing total", func(c *xlsx.Cell) { setMoney(c, report.MissingTotal) }},
		{"Extra rows", func(c *xlsx.Cell) { c.SetInt(len(report.Extra)) }},
		{"Extra total", func(c *xlsx.Cell) { setMoney(c, report.ExtraTotal) }},
		{"Unpriced rows", func(c *xlsx.Cell) { c.SetInt(report.UnpricedRows) }},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		label := row.AddCell()
		label.SetString(r.label)
		label.GetStyle().Font.Bold = true
		r.set(row.AddCell())
	}

	sheet.SetColWidth(1, 1, 18)
	sheet.SetColWidth(2, 2, 16)
	return nil
}

func addItems(file *xlsx.File, name string, items []domain.LineItem) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return fmt.Errorf("failed to add %s sheet: %w", name, err)
	}

	header := sheet.AddRow()
	for _, h := range itemHeaders {
		cell := header.AddCell()
		cell.SetString(h)
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().SetInt64(item.ProductVariantID)
		row.AddCell().SetString(itemName(item))
		row.AddCell().SetString(item.QRCode)
		row.AddCell().SetInt(item.Quantity)
		setMoney(row.AddCell(), decimal.NewFromFloat(item.Price).Round(2))
	}

	for i := range itemHeaders {
		sheet.SetColWidth(i+1, i+1, 16)
	}
	return nil
}

func itemName(item domain.LineItem) string {
	if item.VariantName != "" {
		return item.VariantName
	}
	if item.Product != nil {
		return item.Product.Name
	}
	return ""
}

func setMoney(c *xlsx.Cell, d decimal.Decimal) {
	c.SetFloatWithFormat(d.InexactFloat64(), moneyFormat)
}
