package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WhalePredictor/internal/analysis/market"
	"github.com/Alias1177/WhalePredictor/internal/analysis/prediction"
	"github.com/Alias1177/WhalePredictor/internal/api/coingecko"
	"github.com/Alias1177/WhalePredictor/internal/config"
	"github.com/Alias1177/WhalePredictor/internal/database"
	"github.com/Alias1177/WhalePredictor/internal/metrics"
	"github.com/Alias1177/WhalePredictor/internal/pricefeed"
	"github.com/Alias1177/WhalePredictor/models"
)

// app holds every wired component; close releases connections
type app struct {
	db        *database.DB
	redis     *redis.Client
	prices    models.PriceHistoryProvider
	predictor *prediction.Predictor
	metrics   *metrics.Registry
}

func buildApp(ctx context.Context, c *config.Config) (*app, error) {
	a := &app{metrics: metrics.New()}

	if c.DatabaseEnabled() {
		db, err := database.New(ctx, database.ConnectionParams{
			Host:         c.DBHost,
			Port:         c.DBPort,
			User:         c.DBUser,
			Password:     c.DBPassword,
			DBName:       c.DBName,
			SSLMode:      c.DBSSLMode,
			QueryTimeout: c.DBQueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.db = db
	} else {
		log.Warn().Msg("DB_HOST not set, running without persistence")
	}

	a.prices = a.buildPriceChain(ctx, c)

	deps := prediction.Dependencies{
		Prices:  a.prices,
		Metrics: a.metrics,
	}
	if a.db != nil {
		deps.Correlations = market.NewCorrelationAnalyzer(a.db)
		deps.Whales = market.NewWhaleAnalyzer(a.db)
		deps.Geopolitical = market.NewGeopoliticalAnalyzer(a.db)
		deps.Store = a.db
	} else {
		neutral := market.Static{}
		deps.Correlations = neutral
		deps.Whales = neutral
		deps.Geopolitical = neutral
	}

	a.predictor = prediction.NewPredictor(deps, prediction.Config{
		HistoryDays:     c.HistoryDays,
		CorrelationDays: c.CorrelationDays,
		WhaleDays:       c.WhaleDays,
		GeoDays:         c.GeoDays,
	})

	return a, nil
}

// buildPriceChain layers CoinGecko, the synthetic fallback and the Redis cache
func (a *app) buildPriceChain(ctx context.Context, c *config.Config) models.PriceHistoryProvider {
	var prices models.PriceHistoryProvider = coingecko.NewClient(coingecko.ClientOptions{
		APIKey:          c.CoinGeckoAPIKey,
		BaseURL:         c.CoinGeckoBaseURL,
		RequestTimeout:  c.RequestTimeout,
		RequestsPerSec:  c.RequestsPerSec,
		MaxRetryTimeout: c.MaxRetryTimeout,
	})

	if c.SyntheticFallback {
		fallback := pricefeed.NewFallbackProvider(prices, pricefeed.NewSyntheticProvider(c.SyntheticBasePrice, time.Now().UnixNano()))
		fallback.OnFallback(func(error) {
			a.metrics.UpstreamFallbacks.WithLabelValues("price_history").Inc()
		})
		prices = fallback
	}

	if c.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", c.RedisAddr).Msg("Redis unreachable, price cache disabled")
			rdb.Close()
			return prices
		}
		a.redis = rdb
		prices = pricefeed.NewCachedProvider(prices, rdb, c.PriceCacheTTL)
	}

	return prices
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing redis client")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing database")
		}
	}
}
