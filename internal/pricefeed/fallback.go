package pricefeed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WhalePredictor/models"
)

// FallbackProvider serves the primary source and switches to the fallback
// only when the primary fails. The two series are never mixed.
type FallbackProvider struct {
	primary    models.PriceHistoryProvider
	fallback   models.PriceHistoryProvider
	onFallback func(err error)
	logger     zerolog.Logger
}

// NewFallbackProvider chains primary and fallback. A nil fallback disables switching.
func NewFallbackProvider(primary, fallback models.PriceHistoryProvider) *FallbackProvider {
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		logger:   log.With().Str("component", "price_fallback").Logger(),
	}
}

// OnFallback registers a hook called each time the fallback is used
func (p *FallbackProvider) OnFallback(fn func(err error)) {
	p.onFallback = fn
}

// PriceHistory implements models.PriceHistoryProvider
func (p *FallbackProvider) PriceHistory(ctx context.Context, days int) (models.PriceHistory, error) {
	history, err := p.primary.PriceHistory(ctx, days)
	if err == nil {
		return history, nil
	}
	// a cancelled caller gets its error back, not made-up data
	if p.fallback == nil || ctx.Err() != nil {
		return models.PriceHistory{}, err
	}

	p.logger.Warn().Err(err).Int("days", days).Msg("Primary price source failed, using fallback")
	if p.onFallback != nil {
		p.onFallback(err)
	}

	return p.fallback.PriceHistory(ctx, days)
}
