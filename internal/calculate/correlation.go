package calculate

import "math"

// Correlation computes the Pearson coefficient over the first n = min(len(x), len(y))
// elements of both series using the sum formula
//
//	(nΣxy - ΣxΣy) / sqrt((nΣx² - (Σx)²)(nΣy² - (Σy)²))
//
// Series are not time-aligned here; callers pre-align them.
// A series with no variance (or n == 0) gives exactly 0.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n == 0 || constant(x[:n]) || constant(y[:n]) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	fn := float64(n)
	numerator := fn*sumXY - sumX*sumY
	varX := fn*sumX2 - sumX*sumX
	varY := fn*sumY2 - sumY*sumY

	// rounding can push a zero-variance term slightly negative
	if varX <= 0 || varY <= 0 {
		return 0
	}

	r := numerator / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r))
}

// constant reports whether every value equals the first
func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
