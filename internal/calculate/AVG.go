package calculate

// Average calculates the arithmetic mean, 0 for an empty slice
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, value := range values {
		sum += value
	}

	return sum / float64(len(values))
}

// MovingAverage is the simple average of the last min(period, len(prices)) prices
func MovingAverage(prices []float64, period int) float64 {
	if period > len(prices) {
		period = len(prices)
	}
	if period <= 0 {
		return 0
	}
	return Average(prices[len(prices)-period:])
}
