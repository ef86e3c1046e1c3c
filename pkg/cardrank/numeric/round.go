package numeric

import "math"

// halfEpsilon absorbs binary representation error so that values printed as
// an exact half (8.45) round up as they would in decimal arithmetic.
const halfEpsilon = 1e-9

// Round rounds v half-up to the given number of decimals.
func Round(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Floor(v*p+0.5+halfEpsilon) / p
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
