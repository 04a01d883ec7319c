// Package pricing implements the commercial-document computation core:
// line items, sections, discount and VAT aggregation, and the snapshot
// shape consumed by persistence and PDF export.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CoerceNumber converts arbitrary input to a float64, falling back to zero
// for anything non-numeric. NaN and infinities also collapse to zero so a
// bad edit can never poison downstream totals.
func CoerceNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case nil:
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var displayPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount for display with thousands separators and
// two decimal places, prefixed with the currency code.
func FormatAmount(amount float64, currency string) string {
	formatted := displayPrinter.Sprintf("%.2f", amount)
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}
