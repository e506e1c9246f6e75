package analyze

import (
	"math"

	"github.com/Alias1177/WhalePredictor/internal/trading/risk"
	"github.com/Alias1177/WhalePredictor/models"
)

// Decision thresholds on the total factor impact
const (
	buyThreshold   = 5.0
	sellThreshold  = -5.0
	shortThreshold = -7.0

	maxStrength   = 10.0
	maxConfidence = 95.0
)

// Signal is the aggregate of all fired factors
type Signal struct {
	TotalImpact        float64
	Strength           float64
	Recommendation     models.Recommendation
	PredictedChangePct float64
	PredictedPrice     float64
	Confidence         float64
	RiskLevel          models.RiskLevel
	Levels             *risk.TradeLevels
}

// Aggregate sums factor impacts and derives the recommendation, target price,
// confidence, risk level and trade levels
func Aggregate(factors []models.Factor, currentPrice, volatility float64) Signal {
	var total float64
	for _, f := range factors {
		total += f.Impact
	}

	s := Signal{
		TotalImpact:    total,
		Strength:       math.Min(maxStrength, math.Abs(total)),
		Recommendation: DetermineRecommendation(total),
	}

	switch s.Recommendation {
	case models.RecommendationBuy:
		s.PredictedChangePct = 3 + s.Strength*0.5
	case models.RecommendationSell, models.RecommendationShort:
		s.PredictedChangePct = -3 - s.Strength*0.5
	default:
		s.PredictedChangePct = total * 0.5
	}

	s.PredictedPrice = currentPrice * (1 + s.PredictedChangePct/100)
	s.Confidence = math.Min(maxConfidence, 50+s.Strength*4)
	s.RiskLevel = risk.Assess(volatility, currentPrice)
	s.Levels = risk.TradeSetup(s.Recommendation, currentPrice, s.PredictedPrice)

	return s
}

// DetermineRecommendation maps the total impact to an action.
// Both the buy and short boundaries are inclusive.
func DetermineRecommendation(totalImpact float64) models.Recommendation {
	switch {
	case totalImpact >= buyThreshold:
		return models.RecommendationBuy
	case totalImpact <= shortThreshold:
		return models.RecommendationShort
	case totalImpact <= sellThreshold:
		return models.RecommendationSell
	default:
		return models.RecommendationHold
	}
}
