// Package money formats and parses the decimal values carried on an invoice.
//
// Values stay exact until they are displayed. Display rounds half away from
// zero to two places; the screen and the exported document both go through
// Format, so they never disagree.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimals shown for currency values
const Places = 2

// Round rounds to two places, half away from zero
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders d with thousands separators and exactly two decimals,
// without a currency symbol: 1234.5 -> "1,234.50". Magnitude is unbounded.
func Format(d decimal.Decimal) string {
	rounded := Round(d)

	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(Places), ".")
	s := group(whole) + "." + frac
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// group inserts "," between every three digits, counting from the right
func group(digits string) string {
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	if len(digits) <= head {
		return digits
	}

	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCurrency prefixes Format with a currency symbol: "₹ 1,234.50".
// An empty symbol yields the bare amount.
func FormatCurrency(d decimal.Decimal, symbol string) string {
	if symbol == "" {
		return Format(d)
	}
	s := Format(d)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-" + symbol + " " + rest
	}
	return symbol + " " + s
}

// FormatQuantity renders a carat weight or percentage as exact decimal text
// with no grouping and no trailing zeros: 2 -> "2", 2.50 -> "2.5"
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// Parse reads a user-typed number, tolerating thousands separators and
// surrounding whitespace
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("value is required")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}
