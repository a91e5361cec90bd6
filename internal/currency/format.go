package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders amount with the currency symbol, digit grouping and two
// decimals, e.g. "₹1,234.50" or "-$12.00". Digits are taken from the decimal
// itself, so large amounts keep every digit.
func Format(amount decimal.Decimal, meta Meta) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + meta.Symbol + groupThousands(whole) + "." + frac
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
