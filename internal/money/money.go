// Package money formats and parses Brazilian real amounts.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a string cannot be parsed as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

// maxDigits bounds both the exponent and the significant digits of a
// parsed amount.
const maxDigits = 30

// Format renders v as "R$ 1.234,56". Non-finite values render as "R$ -".
func Format(v float64) string {
	if !Finite(v) {
		return "R$ -"
	}
	return FormatDecimal(decimal.NewFromFloat(v))
}

// Finite reports whether v is neither infinite nor NaN.
func Finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FormatDecimal renders d as "R$ 1.234,56".
func FormatDecimal(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, b.String(), frac)
}

// Parse reads an amount written either as "1.234,56" or "1234.56".
// A leading "R$" is ignored.
func Parse(s string) (float64, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// ParseDecimal is Parse returning a decimal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	clean = strings.ReplaceAll(clean, " ", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	// amounts must survive the float64 round trip used for storage
	if exp := d.Exponent(); exp > maxDigits || exp < -maxDigits || d.NumDigits() > maxDigits {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	if !Finite(d.InexactFloat64()) {
		return decimal.Zero, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return d, nil
}
