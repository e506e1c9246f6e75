package backtest

import (
	"github.com/Alias1177/WhalePredictor/models"
)

// Summarize computes accuracy metrics over comparisons; only matched entries
// contribute to the error and hit rate
func Summarize(comparisons []models.PredictionComparison) models.ComparisonSummary {
	summary := models.ComparisonSummary{Total: len(comparisons)}

	var errSum float64
	var hits int
	for _, c := range comparisons {
		if c.ErrorPct == nil {
			continue
		}
		summary.Matched++
		errSum += *c.ErrorPct
		if c.DirectionHit != nil && *c.DirectionHit {
			hits++
		}
	}

	if summary.Matched > 0 {
		summary.MeanAbsErrorPct = errSum / float64(summary.Matched)
		summary.HitRatePct = float64(hits) / float64(summary.Matched) * 100
	}

	return summary
}
