package risk

import (
	"github.com/Alias1177/WhalePredictor/models"
)

// Volatility thresholds as a fraction of the current price
const (
	lowVolatilityRatio    = 0.02
	mediumVolatilityRatio = 0.05

	// stop distance from entry for any directional trade
	stopLossFraction = 0.05
)

// TradeLevels holds the entry/stop/target prices of a directional recommendation
type TradeLevels struct {
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
}

// Assess classifies volatility relative to the current price
func Assess(volatility, currentPrice float64) models.RiskLevel {
	switch {
	case volatility < currentPrice*lowVolatilityRatio:
		return models.RiskLow
	case volatility < currentPrice*mediumVolatilityRatio:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// TradeSetup returns the levels for a recommendation, nil for hold.
// Long stops sit 5% below entry, short stops 5% above; the target is the predicted price.
func TradeSetup(rec models.Recommendation, currentPrice, predictedPrice float64) *TradeLevels {
	var stop float64
	switch rec {
	case models.RecommendationBuy:
		stop = currentPrice * (1 - stopLossFraction)
	case models.RecommendationSell, models.RecommendationShort:
		stop = currentPrice * (1 + stopLossFraction)
	default:
		return nil
	}

	return &TradeLevels{
		EntryPrice: currentPrice,
		StopLoss:   stop,
		TakeProfit: predictedPrice,
	}
}
