package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Amounts are carried as decimals at full precision through every
// computation and rounded to cents once, when a value leaves the package.

// tolerance is the largest difference treated as equal when comparing amounts.
var tolerance = decimal.New(1, -2)

func dec(v float64) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds an amount to 2 decimal places, half away from zero.
// Non-finite input yields 0.
func Round2(v float64) float64 {
	return cents(dec(v))
}

// WithinTolerance reports whether two amounts differ by at most 0.01.
func WithinTolerance(a, b float64) bool {
	return dec(a).Sub(dec(b)).Abs().LessThanOrEqual(tolerance)
}
