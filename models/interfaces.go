package models

import "context"

// PriceHistoryProvider supplies an ascending daily BTC price series
type PriceHistoryProvider interface {
	PriceHistory(ctx context.Context, days int) (PriceHistory, error)
}

// CorrelationProvider supplies BTC/macro correlations over a lookback window
type CorrelationProvider interface {
	Correlations(ctx context.Context, days int) (CorrelationSet, error)
}

// WhaleActivityProvider supplies classified whale flow counts over a lookback window
type WhaleActivityProvider interface {
	WhaleActivity(ctx context.Context, days int) (WhaleActivitySummary, error)
}

// GeopoliticalProvider supplies the pre-weighted geopolitical impact score
type GeopoliticalProvider interface {
	GeopoliticalImpact(ctx context.Context, days int) (float64, error)
}

// PredictionStore receives finished predictions
type PredictionStore interface {
	StorePrediction(ctx context.Context, p *PredictionResult) error
}
