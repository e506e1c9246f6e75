package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WhalePredictor/models"
)

const (
	DefaultCacheTTL = time.Minute
	cacheKeyPrefix  = "whalepredictor:price_history:"
)

// CachedProvider keeps recent price histories in Redis.
// Synthetic series are never cached, and Redis failures degrade to a miss.
type CachedProvider struct {
	next   models.PriceHistoryProvider
	rdb    redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedProvider wraps next with a Redis cache
func NewCachedProvider(next models.PriceHistoryProvider, rdb redis.Cmdable, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With().Str("component", "price_cache").Logger(),
	}
}

func cacheKey(days int) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, days)
}

// PriceHistory implements models.PriceHistoryProvider; a hit is labelled models.SourceCache
func (p *CachedProvider) PriceHistory(ctx context.Context, days int) (models.PriceHistory, error) {
	key := cacheKey(days)

	raw, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var points []models.PricePoint
		if jsonErr := json.Unmarshal(raw, &points); jsonErr == nil && len(points) > 0 {
			p.logger.Debug().Int("days", days).Msg("Price history cache hit")
			return models.PriceHistory{Points: points, Source: models.SourceCache}, nil
		}
		p.logger.Warn().Str("key", key).Msg("Discarding unreadable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn().Err(err).Msg("Redis read failed, bypassing cache")
	}

	history, err := p.next.PriceHistory(ctx, days)
	if err != nil {
		return models.PriceHistory{}, err
	}

	if history.Source != models.SourceSynthetic {
		if payload, err := json.Marshal(history.Points); err == nil {
			if err := p.rdb.Set(ctx, key, payload, p.ttl).Err(); err != nil {
				p.logger.Warn().Err(err).Msg("Redis write failed")
			}
		}
	}

	return history, nil
}
