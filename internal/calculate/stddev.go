package calculate

import "math"

// StdDev returns the population standard deviation (divides by N)
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Average(values)

	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
