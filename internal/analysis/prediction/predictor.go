package prediction

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Alias1177/WhalePredictor/internal/analyze"
	"github.com/Alias1177/WhalePredictor/internal/metrics"
	"github.com/Alias1177/WhalePredictor/models"
)

// Config holds the lookback windows used to gather prediction inputs
type Config struct {
	HistoryDays     int
	CorrelationDays int
	WhaleDays       int
	GeoDays         int
}

// DefaultConfig returns the standard lookbacks: 90 days of prices and
// correlations, 7 days of whale flows, 30 days of events
func DefaultConfig() Config {
	return Config{
		HistoryDays:     90,
		CorrelationDays: 90,
		WhaleDays:       7,
		GeoDays:         30,
	}
}

// Dependencies are the collaborators a Predictor gathers inputs from.
// Store and Metrics are optional.
type Dependencies struct {
	Prices       models.PriceHistoryProvider
	Correlations models.CorrelationProvider
	Whales       models.WhaleActivityProvider
	Geopolitical models.GeopoliticalProvider
	Store        models.PredictionStore
	Metrics      *metrics.Registry
}

// Predictor gathers inputs, runs the scoring engine and hands off the result
type Predictor struct {
	deps   Dependencies
	cfg    Config
	logger zerolog.Logger
}

// NewPredictor creates a predictor; zero lookbacks fall back to DefaultConfig
func NewPredictor(deps Dependencies, cfg Config) *Predictor {
	def := DefaultConfig()
	if cfg.HistoryDays <= 0 {
		cfg.HistoryDays = def.HistoryDays
	}
	if cfg.CorrelationDays <= 0 {
		cfg.CorrelationDays = def.CorrelationDays
	}
	if cfg.WhaleDays <= 0 {
		cfg.WhaleDays = def.WhaleDays
	}
	if cfg.GeoDays <= 0 {
		cfg.GeoDays = def.GeoDays
	}

	return &Predictor{
		deps:   deps,
		cfg:    cfg,
		logger: log.With().Str("component", "predictor").Logger(),
	}
}

// Predict produces a prediction for the given timeframe label.
// A price history failure is fatal and returned as *models.UpstreamFetchError.
// Correlation, whale and geopolitical failures fall back to neutral zero values.
// Cancellation of ctx is always returned.
func (p *Predictor) Predict(ctx context.Context, timeframe models.Timeframe) (*models.PredictionResult, error) {
	start := time.Now()

	history, err := p.deps.Prices.PriceHistory(ctx, p.cfg.HistoryDays)
	if err != nil {
		p.countError("price_history")
		return nil, &models.UpstreamFetchError{Source: "price_history", Err: err}
	}

	var (
		correlations models.CorrelationSet
		whales       models.WhaleActivitySummary
		geoImpact    float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := p.deps.Correlations.Correlations(gctx, p.cfg.CorrelationDays)
		if err != nil {
			return p.fallback(ctx, "correlations", err)
		}
		correlations = v
		return nil
	})

	g.Go(func() error {
		v, err := p.deps.Whales.WhaleActivity(gctx, p.cfg.WhaleDays)
		if err != nil {
			return p.fallback(ctx, "whales", err)
		}
		whales = v
		return nil
	})

	g.Go(func() error {
		v, err := p.deps.Geopolitical.GeopoliticalImpact(gctx, p.cfg.GeoDays)
		if err != nil {
			return p.fallback(ctx, "geopolitical", err)
		}
		geoImpact = v
		return nil
	})

	if err := g.Wait(); err != nil {
		p.countError("cancelled")
		return nil, err
	}

	result, err := analyze.Compute(history, correlations, whales, geoImpact, timeframe)
	if err != nil {
		p.countError("compute")
		return nil, err
	}

	if p.deps.Store != nil {
		if err := p.deps.Store.StorePrediction(ctx, result); err != nil {
			p.countError("store")
			p.logger.Warn().Err(err).Str("id", result.ID).Msg("Failed to store prediction")
		}
	}

	if m := p.deps.Metrics; m != nil {
		m.PredictionsTotal.WithLabelValues(string(result.Recommendation), string(timeframe), string(result.DataSource)).Inc()
		m.PredictionDuration.Observe(time.Since(start).Seconds())
	}

	p.logger.Info().
		Str("id", result.ID).
		Str("timeframe", string(timeframe)).
		Str("recommendation", string(result.Recommendation)).
		Float64("confidence", result.Confidence).
		Float64("current_price", result.CurrentPrice).
		Float64("predicted_price", result.PredictedPrice).
		Str("source", string(result.DataSource)).
		Int("factors", len(result.Factors)).
		Msg("Prediction generated")

	return result, nil
}

// fallback swallows an input failure so the zero value is used,
// unless the caller has gone away
func (p *Predictor) fallback(ctx context.Context, source string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	p.logger.Warn().Err(&models.UpstreamFetchError{Source: source, Err: err}).Msg("Input unavailable, using neutral value")
	if p.deps.Metrics != nil {
		p.deps.Metrics.UpstreamFallbacks.WithLabelValues(source).Inc()
	}
	return nil
}

func (p *Predictor) countError(stage string) {
	if p.deps.Metrics != nil {
		p.deps.Metrics.PredictionErrors.WithLabelValues(stage).Inc()
	}
}
