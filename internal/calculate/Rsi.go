package calculate

// DefaultRSIPeriod is the lookback used for the prediction RSI
const DefaultRSIPeriod = 14

// RSI computes the relative strength index from simple average gains and
// losses over the last period price changes.
// With fewer than period+1 prices it returns the neutral value 50.
// When there are no losses rs is pinned to 100, so an all-rising series
// yields 100 - 100/101 (about 99.01) rather than 100.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0
	}

	var gains, losses float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	rs := 100.0
	if avgLoss != 0 {
		rs = avgGain / avgLoss
	}

	return 100.0 - (100.0 / (1.0 + rs))
}
