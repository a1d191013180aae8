package features

import (
	"math"
	"strconv"
)

// Round rounds half to even on the exact binary value of x, which is how
// the training pipeline rounded. Non-finite input yields 0.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return 0
	}
	if v == 0 {
		return 0
	}
	return v
}

// SafeDivide returns num/den, or 0 when den is zero or the quotient is
// not finite.
func SafeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
