// Package barcodefile extracts barcode lists from delivery notes
package barcodefile

import (
	"regexp"
	"strconv"
	"strings"
)

// maxRepeat caps the quantity a single line may expand to
const maxRepeat = 1000

var (
	barcodePattern  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-_.]{2,63}$`)
	quantityPattern = regexp.MustCompile(`^[xX×]?(\d{1,4})$`)
	headerWords     = map[string]bool{
		"barcode": true, "barcodes": true, "qr": true, "qr_code": true,
		"qrcode": true, "code": true, "sku": true,
	}
)

// IsBarcode reports whether s looks like a scannable code. Codes must contain
// at least one digit so prose words on a delivery note are not taken as codes.
func IsBarcode(s string) bool {
	return barcodePattern.MatchString(s) && strings.ContainsAny(s, "0123456789")
}

func isHeader(s string) bool {
	return headerWords[strings.ToLower(strings.TrimSpace(s))]
}

// quantity parses "3", "x3" or "×3". Anything else counts as one unit.
func quantity(s string) int {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 1
	}
	if n > maxRepeat {
		return maxRepeat
	}
	return n
}

// expand appends code n times, one entry per scanned unit
func expand(out []string, code string, n int) []string {
	for i := 0; i < n; i++ {
		out = append(out, code)
	}
	return out
}

// ParseLines reads one code per line from free text. An optional second
// field gives the quantity. Lines whose first field is not a code are skipped.
func ParseLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || !IsBarcode(fields[0]) {
			continue
		}
		n := 1
		if len(fields) > 1 {
			n = quantity(fields[1])
		}
		out = expand(out, fields[0], n)
	}
	return out
}
