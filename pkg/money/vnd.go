// Package money formats and sums whole-dong amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VND is an amount in whole Vietnamese dong.
type VND int64

// Decimal returns the amount as a decimal for arithmetic.
func (v VND) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}

// Mul multiplies a unit price by a quantity.
func (v VND) Mul(qty int) VND {
	return VND(v.Decimal().Mul(decimal.NewFromInt(int64(qty))).IntPart())
}

// String renders the amount with dot thousands separators, e.g. "17.490.000 đ".
func (v VND) String() string {
	return Format(v.Decimal())
}

// Sum adds line amounts.
func Sum(amounts ...VND) VND {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return VND(total.IntPart())
}

// Format renders a decimal amount rounded to whole dong.
func Format(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().StringFixed(0)

	var b strings.Builder
	if amount.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(" đ")
	return b.String()
}
