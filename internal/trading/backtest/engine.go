package backtest

import (
	"math"
	"sort"

	"github.com/Alias1177/WhalePredictor/models"
)

// Compare matches every stored prediction with the first recorded price at or
// after its timestamp. Output is ordered oldest first. Without a later price the
// actual price falls back to the price at prediction time and the error is nil.
func Compare(predictions []models.PredictionRecord, prices []models.PricePoint) []models.PredictionComparison {
	preds := make([]models.PredictionRecord, len(predictions))
	copy(preds, predictions)
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Timestamp.Before(preds[j].Timestamp) })

	actual := make([]models.PricePoint, len(prices))
	copy(actual, prices)
	sort.SliceStable(actual, func(i, j int) bool { return actual[i].Timestamp.Before(actual[j].Timestamp) })

	out := make([]models.PredictionComparison, 0, len(preds))
	for _, pred := range preds {
		c := models.PredictionComparison{
			Timestamp:      pred.Timestamp,
			PredictedPrice: pred.PredictedPrice,
			ActualPrice:    pred.CurrentPrice,
			CurrentPrice:   pred.CurrentPrice,
			Confidence:     pred.Confidence,
			Recommendation: pred.Recommendation,
			Timeframe:      pred.Timeframe,
		}

		idx := sort.Search(len(actual), func(i int) bool { return !actual[i].Timestamp.Before(pred.Timestamp) })
		if idx < len(actual) && actual[idx].Price > 0 {
			price := actual[idx].Price
			errPct := math.Abs(pred.PredictedPrice-price) / price * 100
			hit := directionHit(models.Recommendation(pred.Recommendation), pred.CurrentPrice, price)

			c.ActualPrice = price
			c.ErrorPct = &errPct
			c.DirectionHit = &hit
		}

		out = append(out, c)
	}

	return out
}

// directionHit reports whether the price moved the way the recommendation said.
// Hold is right when the move stayed within 1%.
func directionHit(rec models.Recommendation, current, actual float64) bool {
	switch rec {
	case models.RecommendationBuy:
		return actual > current
	case models.RecommendationSell, models.RecommendationShort:
		return actual < current
	default:
		if current == 0 {
			return false
		}
		return math.Abs(actual-current)/current < 0.01
	}
}
