package barcodefile

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadPDF extracts codes from the text layer of a delivery note. Pages
// without text are skipped.
func ReadPDF(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var lines []string
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", n, err)
		}
		lines = append(lines, strings.Split(text, "\n")...)
	}
	return ParseLines(lines), nil
}
