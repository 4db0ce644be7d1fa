// Package pricing parses and formats game-currency amounts. Prices in
// the game get large quickly, so input accepts unit suffixes ("1.5M")
// and output compacts to the largest fitting unit. Suffix scaling goes
// through decimal arithmetic so "1.5M" is exactly 1500000.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a named power-of-ten multiplier usable as a price suffix.
type Unit struct {
	Code string
	Name string
	Exp  int32
}

// units in ascending order of magnitude.
var units = []Unit{
	{Code: "k", Name: "Thousand", Exp: 3},
	{Code: "M", Name: "Million", Exp: 6},
	{Code: "B", Name: "Billion", Exp: 9},
	{Code: "T", Name: "Trillion", Exp: 12},
}

// Units returns the supported suffix table in ascending order.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// ParsePrice converts a price string to a float value. Accepts an
// optional leading "$" and an optional unit suffix, case-insensitive:
// "123.45", "$123.45", "1.5M", "$2k".
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	var exp int32
	for _, u := range units {
		if strings.EqualFold(s[len(s)-1:], u.Code) {
			exp = u.Exp
			s = strings.TrimSpace(s[:len(s)-1])
			break
		}
	}
	if s == "" {
		return 0, fmt.Errorf("invalid price format, enter a number (e.g. 123.45, $123.45 or 1.5M)")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid price format, enter a number (e.g. 123.45, $123.45 or 1.5M)")
	}

	f, _ := d.Shift(exp).Float64()
	return f, nil
}

// FormatPrice formats an amount into game currency, compacting to the
// largest unit whose multiplier fits: 12345.6 -> "$12.35k". Negative
// amounts keep their sign in front of the "$".
func FormatPrice(v float64) string {
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	suffix := ""
	for i := len(units) - 1; i >= 0; i-- {
		if d.GreaterThanOrEqual(decimal.New(1, units[i].Exp)) {
			suffix = units[i].Code
			d = d.Shift(-units[i].Exp)
			break
		}
	}

	return fmt.Sprintf("%s$%s%s", sign, d.StringFixed(2), suffix)
}

// ParseQuantity parses a share count, accepting "max" or "all" as the
// given maximum. Numeric input must be between 1 and max.
func ParseQuantity(s string, max int64) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty quantity")
	}

	if strings.EqualFold(s, "max") || strings.EqualFold(s, "all") {
		return max, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("enter a whole number or 'max'/'all'")
	}
	q := d.IntPart()
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be greater than 0")
	}
	if q > max {
		return 0, fmt.Errorf("cannot exceed maximum quantity of %d", max)
	}
	return q, nil
}
