package analyze

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alias1177/WhalePredictor/internal/indicators"
	"github.com/Alias1177/WhalePredictor/models"
)

// Compute runs the full scoring pipeline on already gathered inputs.
// It is pure apart from the generated ID and timestamp, and fails with
// models.ErrInvalidInputData when the price history is unusable.
func Compute(
	history models.PriceHistory,
	correlations models.CorrelationSet,
	whales models.WhaleActivitySummary,
	geoImpact float64,
	timeframe models.Timeframe,
) (*models.PredictionResult, error) {
	snapshot, err := indicators.BuildSnapshot(history.Prices())
	if err != nil {
		return nil, err
	}

	factors := BuildFactors(FactorInputs{
		Indicators:   snapshot,
		Correlations: correlations,
		Whales:       whales,
		GeoImpact:    geoImpact,
	})

	signal := Aggregate(factors, snapshot.CurrentPrice, snapshot.Volatility)

	result := &models.PredictionResult{
		ID:             uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		Recommendation: signal.Recommendation,
		Confidence:     signal.Confidence,
		PredictedPrice: signal.PredictedPrice,
		CurrentPrice:   snapshot.CurrentPrice,
		Strength:       signal.Strength,
		Timeframe:      timeframe,
		RiskLevel:      signal.RiskLevel,
		Factors:        RankFactors(factors),
		Reasoning:      Reasoning(signal.Recommendation, factors, snapshot.RSI14, snapshot.CurrentPrice, snapshot.MA50),
		DataSource:     history.Source,
		Indicators:     &snapshot,
	}

	if signal.Levels != nil {
		entry, stop, target := signal.Levels.EntryPrice, signal.Levels.StopLoss, signal.Levels.TakeProfit
		result.EntryPrice = &entry
		result.StopLoss = &stop
		result.TakeProfit = &target
	}

	return result, nil
}
