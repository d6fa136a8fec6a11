package model

import (
	"math"
	"strconv"
)

// Round rounds v to the given number of decimal digits.
//
// Ties are resolved to even on the exact binary value of v, so 2.675 (stored as
// 2.67499999...) rounds to 2.67 and 0.125 rounds to 0.12.
func Round(v float64, decimals int) float64 {
	if decimals < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', decimals, 64), 64)
	if err != nil {
		return v
	}

	// Avoid negative zero leaking into slack comparisons and outputs.
	if r == 0 {
		return 0
	}
	return r
}
