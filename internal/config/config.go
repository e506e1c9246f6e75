package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"3001"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool  `env:"LOG_PRETTY" envDefault:"false"`

	CoinGeckoAPIKey   string        `env:"COINGECKO_API_KEY"`
	CoinGeckoBaseURL  string        `env:"COINGECKO_BASE_URL" envDefault:"https://api.coingecko.com/api/v3"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	RequestsPerSec    int           `env:"REQUESTS_PER_SEC" envDefault:"5"`
	MaxRetryTimeout   time.Duration `env:"MAX_RETRY_TIMEOUT" envDefault:"30s"`
	PredictionTimeout time.Duration `env:"PREDICTION_TIMEOUT" envDefault:"45s"`

	DBHost         string        `env:"DB_HOST"` // empty disables persistence
	DBPort         string        `env:"DB_PORT" envDefault:"5432"`
	DBUser         string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string        `env:"DB_PASSWORD"`
	DBName         string        `env:"DB_NAME" envDefault:"whalepredictor"`
	DBSSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBQueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"10s"`

	RedisAddr     string        `env:"REDIS_ADDR"` // empty disables the price cache
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	PriceCacheTTL time.Duration `env:"PRICE_CACHE_TTL" envDefault:"60s"`

	SyntheticFallback  bool    `env:"PRICE_SYNTHETIC_FALLBACK" envDefault:"true"`
	SyntheticBasePrice float64 `env:"SYNTHETIC_BASE_PRICE" envDefault:"95000"`

	HistoryDays     int `env:"HISTORY_DAYS" envDefault:"90"`
	CorrelationDays int `env:"CORRELATION_DAYS" envDefault:"90"`
	WhaleDays       int `env:"WHALE_DAYS" envDefault:"7"`
	GeoDays         int `env:"GEO_DAYS" envDefault:"30"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.Port = getEnvWithDefault("PORT", "3001")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.LogPretty = getEnvBoolWithDefault("LOG_PRETTY", false)

	cfg.CoinGeckoAPIKey = os.Getenv("COINGECKO_API_KEY")
	cfg.CoinGeckoBaseURL = getEnvWithDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3")
	cfg.RequestTimeout = getEnvDurationWithDefault("REQUEST_TIMEOUT", 10*time.Second)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.MaxRetryTimeout = getEnvDurationWithDefault("MAX_RETRY_TIMEOUT", 30*time.Second)
	cfg.PredictionTimeout = getEnvDurationWithDefault("PREDICTION_TIMEOUT", 45*time.Second)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "whalepredictor")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")
	cfg.DBQueryTimeout = getEnvDurationWithDefault("DB_QUERY_TIMEOUT", 10*time.Second)

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvIntWithDefault("REDIS_DB", 0)
	cfg.PriceCacheTTL = getEnvDurationWithDefault("PRICE_CACHE_TTL", 60*time.Second)

	cfg.SyntheticFallback = getEnvBoolWithDefault("PRICE_SYNTHETIC_FALLBACK", true)
	cfg.SyntheticBasePrice = getEnvFloatWithDefault("SYNTHETIC_BASE_PRICE", 95000)

	cfg.HistoryDays = getEnvIntWithDefault("HISTORY_DAYS", 90)
	cfg.CorrelationDays = getEnvIntWithDefault("CORRELATION_DAYS", 90)
	cfg.WhaleDays = getEnvIntWithDefault("WHALE_DAYS", 7)
	cfg.GeoDays = getEnvIntWithDefault("GEO_DAYS", 30)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	for name, days := range map[string]int{
		"HISTORY_DAYS":     c.HistoryDays,
		"CORRELATION_DAYS": c.CorrelationDays,
		"WHALE_DAYS":       c.WhaleDays,
		"GEO_DAYS":         c.GeoDays,
	} {
		if days <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, days)
		}
	}
	if c.RequestsPerSec <= 0 {
		return fmt.Errorf("REQUESTS_PER_SEC must be positive, got %d", c.RequestsPerSec)
	}
	return nil
}

// DatabaseEnabled reports whether a PostgreSQL host is configured
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

// CacheEnabled reports whether a Redis address is configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid number, using default")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvDurationWithDefault accepts Go durations ("1m30s") or bare seconds ("30")
func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
	return defaultValue
}
