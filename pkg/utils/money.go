package utils

import (
	"math"
	"strconv"
)

// Round2 rounds x to two decimal places. Prices accumulate as float64, so
// totals are rounded once at the end rather than per addition.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatPrice renders a price with exactly two decimals, e.g. "1299.99".
func FormatPrice(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
