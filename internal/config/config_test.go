package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// no .env in the package directory, so only the process environment applies
	for _, key := range []string{"PORT", "DB_HOST", "REDIS_ADDR", "HISTORY_DAYS", "PRICE_SYNTHETIC_FALLBACK", "PRICE_CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, 90, cfg.HistoryDays)
	assert.Equal(t, 90, cfg.CorrelationDays)
	assert.Equal(t, 7, cfg.WhaleDays)
	assert.Equal(t, 30, cfg.GeoDays)
	assert.Equal(t, time.Minute, cfg.PriceCacheTTL)
	assert.True(t, cfg.SyntheticFallback)
	assert.Equal(t, 95000.0, cfg.SyntheticBasePrice)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REQUEST_TIMEOUT", "15")
	t.Setenv("PREDICTION_TIMEOUT", "1m30s")
	t.Setenv("PRICE_SYNTHETIC_FALLBACK", "false")
	t.Setenv("WHALE_DAYS", "14")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.DatabaseEnabled())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.PredictionTimeout)
	assert.False(t, cfg.SyntheticFallback)
	assert.Equal(t, 14, cfg.WhaleDays)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoad_RejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("GEO_DAYS", "-3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEO_DAYS")
}
