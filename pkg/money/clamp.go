package money

import "github.com/shopspring/decimal"

// Correction reports whether an input had to be clamped. OK is false when the
// value was changed, and Corrected holds the value the pipeline continued
// with. Callers may surface it as a warning; it is never an error.
type Correction struct {
	OK        bool    `json:"ok"`
	Corrected float64 `json:"corrected"`
}

// Clamp bounds v into [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi decimal.Decimal) (decimal.Decimal, Correction) {
	out := v
	if out.GreaterThan(hi) {
		out = hi
	}
	if out.LessThan(lo) {
		out = lo
	}
	return out, Correction{
		OK:        out.Equal(v),
		Corrected: out.InexactFloat64(),
	}
}
