package market

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/WhalePredictor/internal/calculate"
	"github.com/Alias1177/WhalePredictor/models"
)

// MacroSource loads daily macro samples, oldest first
type MacroSource interface {
	MacroSamples(ctx context.Context, since time.Time) ([]models.MacroSample, error)
}

// CorrelationAnalyzer correlates BTC against the stored macro channels
type CorrelationAnalyzer struct {
	source MacroSource
	now    func() time.Time
}

// NewCorrelationAnalyzer creates an analyzer over source
func NewCorrelationAnalyzer(source MacroSource) *CorrelationAnalyzer {
	return &CorrelationAnalyzer{source: source, now: time.Now}
}

// Correlations implements models.CorrelationProvider
func (a *CorrelationAnalyzer) Correlations(ctx context.Context, days int) (models.CorrelationSet, error) {
	samples, err := a.source.MacroSamples(ctx, models.DaysAgo(a.now(), days))
	if err != nil {
		return models.CorrelationSet{}, fmt.Errorf("loading macro samples: %w", err)
	}
	return CorrelateSamples(samples), nil
}

// CorrelateSamples computes the correlation set from aligned daily samples.
// Zero means no data for a macro channel on that day, so each channel keeps only
// its positive values; a channel with no data correlates to 0.
func CorrelateSamples(samples []models.MacroSample) models.CorrelationSet {
	btc := make([]float64, 0, len(samples))
	for _, s := range samples {
		btc = append(btc, s.BTCPrice)
	}

	channel := func(pick func(models.MacroSample) float64) float64 {
		values := make([]float64, 0, len(samples))
		for _, s := range samples {
			if v := pick(s); v > 0 {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return 0
		}
		return calculate.Correlation(btc, values)
	}

	return models.CorrelationSet{
		SP500:       channel(func(s models.MacroSample) float64 { return s.SP500 }),
		Gold:        channel(func(s models.MacroSample) float64 { return s.Gold }),
		DollarIndex: channel(func(s models.MacroSample) float64 { return s.DollarIndex }),
		Oil:         channel(func(s models.MacroSample) float64 { return s.Oil }),
		VIX:         channel(func(s models.MacroSample) float64 { return s.VIX }),
	}
}
