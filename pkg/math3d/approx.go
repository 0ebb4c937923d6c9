package math3d

import "math"

// Epsilon is the tolerance used for direction and matrix comparisons.
// Direction vectors are recomputed through chained rotations and must
// converge on floating-point noise rather than exact equality.
const Epsilon = 1e-6

// ApproxEqual reports whether |a-b| <= eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
