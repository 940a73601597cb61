// Package money holds the scalar currency helpers shared by the billing and
// settlement engines. Amounts are carried as float64 at the edges and as
// decimal.Decimal inside every calculation.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Number is a float64 that decodes leniently from JSON. Numbers, numeric
// strings, empty strings and null are all accepted so that a half-edited
// form never fails to decode.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(ToFloat(raw))
	return nil
}

// Float returns the plain float64 value
func (n Number) Float() float64 {
	return float64(n)
}

// Decimal returns the value as a decimal, coercing non-finite values to zero
func (n Number) Decimal() decimal.Decimal {
	return ToNumber(float64(n))
}

// ToNumber coerces any value into a decimal. Unparseable, missing and
// non-finite values become zero.
func ToNumber(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case decimal.Decimal:
		return t
	case Number:
		v = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ToFloat is ToNumber flattened back to a float64
func ToFloat(v interface{}) float64 {
	return ToNumber(v).InexactFloat64()
}

// Round2 rounds half away from zero to two fractional digits
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundFloat2 is Round2 for callers holding a float64
func RoundFloat2(f float64) float64 {
	return Round2(ToNumber(f)).InexactFloat64()
}

// Percent returns part/whole*100 rounded to two digits, or zero when whole is
// not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return Round2(part.Div(whole).Mul(hundred))
}

// PercentOf returns base*pct/100 rounded to two digits
func PercentOf(base, pct decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(pct).Div(hundred))
}

// NonNegative floors d at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

var hundred = decimal.NewFromInt(100)

// Hundred is the constant 100, the upper bound of any percentage field
func Hundred() decimal.Decimal {
	return hundred
}
