package prediction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/WhalePredictor/internal/analysis/market"
	"github.com/Alias1177/WhalePredictor/internal/metrics"
	"github.com/Alias1177/WhalePredictor/models"
)

type fakePrices struct {
	history models.PriceHistory
	err     error
	days    int
}

func (f *fakePrices) PriceHistory(_ context.Context, days int) (models.PriceHistory, error) {
	f.days = days
	return f.history, f.err
}

type failing struct{ err error }

func (f failing) Correlations(context.Context, int) (models.CorrelationSet, error) {
	return models.CorrelationSet{}, f.err
}

func (f failing) WhaleActivity(context.Context, int) (models.WhaleActivitySummary, error) {
	return models.WhaleActivitySummary{}, f.err
}

func (f failing) GeopoliticalImpact(context.Context, int) (float64, error) {
	return 0, f.err
}

// lookbacks records the window each collaborator was asked for
type lookbacks struct {
	mu   sync.Mutex
	days map[string]int
	market.Static
}

func (l *lookbacks) record(name string, days int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.days[name] = days
}

func (l *lookbacks) Correlations(ctx context.Context, days int) (models.CorrelationSet, error) {
	l.record("correlations", days)
	return l.Static.Correlations(ctx, days)
}

func (l *lookbacks) WhaleActivity(ctx context.Context, days int) (models.WhaleActivitySummary, error) {
	l.record("whales", days)
	return l.Static.WhaleActivity(ctx, days)
}

func (l *lookbacks) GeopoliticalImpact(ctx context.Context, days int) (float64, error) {
	l.record("geo", days)
	return l.Static.GeopoliticalImpact(ctx, days)
}

type recordingStore struct {
	stored []*models.PredictionResult
	err    error
}

func (s *recordingStore) StorePrediction(_ context.Context, p *models.PredictionResult) error {
	s.stored = append(s.stored, p)
	return s.err
}

func rally() models.PriceHistory {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, 90)
	for i := range points {
		points[i] = models.PricePoint{
			Timestamp: start.AddDate(0, 0, i),
			Price:     90000 + 5000*float64(i)/89,
		}
	}
	return models.PriceHistory{Points: points, Source: models.SourceLive}
}

func TestPredict_HappyPath(t *testing.T) {
	prices := &fakePrices{history: rally()}
	inputs := &lookbacks{
		days: map[string]int{},
		Static: market.Static{
			CorrelationSet: models.CorrelationSet{SP500: 0.8},
			Summary:        models.WhaleActivitySummary{AccumulationCount: 9, DistributionCount: 2},
		},
	}
	store := &recordingStore{}
	reg := metrics.New()

	p := NewPredictor(Dependencies{
		Prices:       prices,
		Correlations: inputs,
		Whales:       inputs,
		Geopolitical: inputs,
		Store:        store,
		Metrics:      reg,
	}, DefaultConfig())

	result, err := p.Predict(context.Background(), models.Timeframe30d)
	require.NoError(t, err)

	assert.Equal(t, models.RecommendationBuy, result.Recommendation)
	assert.Equal(t, models.Timeframe30d, result.Timeframe)
	assert.Equal(t, models.SourceLive, result.DataSource)

	assert.Equal(t, 90, prices.days)
	assert.Equal(t, map[string]int{"correlations": 90, "whales": 7, "geo": 30}, inputs.days)

	require.Len(t, store.stored, 1)
	assert.Same(t, result, store.stored[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PredictionsTotal.WithLabelValues("buy", "30d", "live")))
}

func TestPredict_PriceFailureIsFatal(t *testing.T) {
	reg := metrics.New()
	p := NewPredictor(Dependencies{
		Prices:       &fakePrices{err: errors.New("coingecko down")},
		Correlations: market.Static{},
		Whales:       market.Static{},
		Geopolitical: market.Static{},
		Metrics:      reg,
	}, Config{})

	result, err := p.Predict(context.Background(), models.Timeframe24h)
	assert.Nil(t, result)

	var upstream *models.UpstreamFetchError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "price_history", upstream.Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PredictionErrors.WithLabelValues("price_history")))
}

func TestPredict_InputFailuresFallBackToNeutral(t *testing.T) {
	reg := metrics.New()
	boom := failing{err: errors.New("db unavailable")}

	p := NewPredictor(Dependencies{
		Prices:       &fakePrices{history: rally()},
		Correlations: boom,
		Whales:       boom,
		Geopolitical: boom,
		Metrics:      reg,
	}, DefaultConfig())

	result, err := p.Predict(context.Background(), models.Timeframe24h)
	require.NoError(t, err)

	// only the price rules remain: golden cross +4, overbought -3
	assert.Equal(t, models.RecommendationHold, result.Recommendation)
	assert.Equal(t, 1.0, result.Strength)
	for _, source := range []string{"correlations", "whales", "geopolitical"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.UpstreamFallbacks.WithLabelValues(source)), source)
	}
}

func TestPredict_InvalidPrices(t *testing.T) {
	store := &recordingStore{}
	p := NewPredictor(Dependencies{
		Prices:       &fakePrices{history: models.PriceHistory{Points: []models.PricePoint{{Price: 0}}}},
		Correlations: market.Static{},
		Whales:       market.Static{},
		Geopolitical: market.Static{},
		Store:        store,
	}, DefaultConfig())

	result, err := p.Predict(context.Background(), models.Timeframe24h)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrInvalidInputData)
	assert.Empty(t, store.stored)
}

func TestPredict_StoreFailureIsNotFatal(t *testing.T) {
	reg := metrics.New()
	store := &recordingStore{err: errors.New("disk full")}
	p := NewPredictor(Dependencies{
		Prices:       &fakePrices{history: rally()},
		Correlations: market.Static{},
		Whales:       market.Static{},
		Geopolitical: market.Static{},
		Store:        store,
		Metrics:      reg,
	}, DefaultConfig())

	result, err := p.Predict(context.Background(), models.Timeframe24h)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PredictionErrors.WithLabelValues("store")))
}

func TestPredict_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPredictor(Dependencies{
		Prices:       &fakePrices{history: rally()},
		Correlations: failing{err: context.Canceled},
		Whales:       market.Static{},
		Geopolitical: market.Static{},
	}, DefaultConfig())

	result, err := p.Predict(ctx, models.Timeframe24h)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPredictor_DefaultsLookbacks(t *testing.T) {
	p := NewPredictor(Dependencies{}, Config{WhaleDays: 3})
	assert.Equal(t, Config{HistoryDays: 90, CorrelationDays: 90, WhaleDays: 3, GeoDays: 30}, p.cfg)
}
