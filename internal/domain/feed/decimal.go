package feed

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a feed numeric that may use either a period or a
// comma as the decimal separator. Turkish feeds write "1.250,99" where the
// period is a thousands separator; plain "190.00" must keep its meaning.
// Returns (zero, false) when the value cannot be parsed.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		// Comma is the decimal separator; any periods are thousands marks.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQuantity parses an integer stock quantity.
// Returns (0, false) when the value cannot be parsed.
func ParseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some feeds publish quantities with a decimal tail ("259,0").
		d, ok := ParseDecimal(s)
		if !ok {
			return 0, false
		}
		return int(d.IntPart()), true
	}
	return n, true
}
