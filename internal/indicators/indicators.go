package indicators

import (
	"fmt"
	"math"

	"github.com/Alias1177/WhalePredictor/internal/calculate"
	"github.com/Alias1177/WhalePredictor/models"
)

// Lookbacks used by the prediction snapshot
const (
	ShortMAPeriod    = 20
	MediumMAPeriod   = 50
	LongMAPeriod     = 200
	VolatilityWindow = 30
)

// ValidatePrices rejects a series the scoring engine cannot work with:
// empty, or containing a non-finite or non-positive price
func ValidatePrices(prices []float64) error {
	if len(prices) == 0 {
		return fmt.Errorf("%w: empty price history", models.ErrInvalidInputData)
	}
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return fmt.Errorf("%w: price[%d] = %v", models.ErrInvalidInputData, i, p)
		}
	}
	return nil
}

// BuildSnapshot derives the indicator snapshot from an ascending price series.
// The last price is the current price.
func BuildSnapshot(prices []float64) (models.IndicatorSnapshot, error) {
	if err := ValidatePrices(prices); err != nil {
		return models.IndicatorSnapshot{}, err
	}

	current := prices[len(prices)-1]
	ma20 := calculate.MovingAverage(prices, ShortMAPeriod)
	ma50 := calculate.MovingAverage(prices, MediumMAPeriod)
	ma200 := calculate.MovingAverage(prices, LongMAPeriod)

	return models.IndicatorSnapshot{
		CurrentPrice:   current,
		RSI14:          calculate.RSI(prices, calculate.DefaultRSIPeriod),
		MA20:           ma20,
		MA50:           ma50,
		MA200:          ma200,
		ShortTrendPct:  percentFrom(current, ma20),
		MediumTrendPct: percentFrom(current, ma50),
		LongTrendPct:   percentFrom(current, ma200),
		Volatility:     calculate.StdDev(lastN(prices, VolatilityWindow)),
	}, nil
}

// percentFrom is the signed distance of price from base in percent
func percentFrom(price, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (price - base) / base * 100
}

func lastN(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
