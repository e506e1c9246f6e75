package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WhalePredictor/models"
)

const DefaultQueryTimeout = 10 * time.Second

// DB represents a database connection
type DB struct {
	*sqlx.DB
	timeout time.Duration
	logger  zerolog.Logger
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	QueryTimeout time.Duration
}

// New creates a new database connection and makes sure the schema exists
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	conn, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := wrap(conn, params.QueryTimeout)

	// Check connection
	pingCtx, cancel := db.withTimeout(ctx)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// NewWithDB wraps an already opened *sql.DB, e.g. a sqlmock connection
func NewWithDB(conn *sql.DB, queryTimeout time.Duration) *DB {
	return wrap(sqlx.NewDb(conn, "postgres"), queryTimeout)
}

func wrap(conn *sqlx.DB, queryTimeout time.Duration) *DB {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return &DB{
		DB:      conn,
		timeout: queryTimeout,
		logger:  log.With().Str("component", "database").Logger(),
	}
}

func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.timeout)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		current_price DOUBLE PRECISION NOT NULL,
		predicted_price DOUBLE PRECISION NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		recommendation TEXT NOT NULL,
		strength DOUBLE PRECISION NOT NULL,
		timeframe TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		entry_price DOUBLE PRECISION,
		stop_loss DOUBLE PRECISION,
		take_profit DOUBLE PRECISION,
		factors JSONB NOT NULL DEFAULT '[]',
		data_source TEXT NOT NULL DEFAULT 'live'
	)`,
	`CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at)`,
	`CREATE TABLE IF NOT EXISTS whale_transactions (
		hash TEXT PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		usd_value DOUBLE PRECISION NOT NULL,
		classification TEXT NOT NULL,
		from_address TEXT NOT NULL DEFAULT '',
		to_address TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS whale_transactions_timestamp_idx ON whale_transactions (timestamp)`,
	`CREATE TABLE IF NOT EXISTS geopolitical_events (
		id BIGSERIAL PRIMARY KEY,
		date TIMESTAMPTZ NOT NULL,
		type TEXT NOT NULL,
		severity DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		impact_on_btc DOUBLE PRECISION NOT NULL DEFAULT 0,
		region TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS macro_indicators (
		date DATE PRIMARY KEY,
		btc_price DOUBLE PRECISION NOT NULL,
		sp500 DOUBLE PRECISION NOT NULL DEFAULT 0,
		gold_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		dollar_index DOUBLE PRECISION NOT NULL DEFAULT 0,
		oil_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		vix_index DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		timestamp TIMESTAMPTZ PRIMARY KEY,
		price DOUBLE PRECISION NOT NULL
	)`,
}

// Migrate creates the tables if they don't exist
func (db *DB) Migrate(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// StorePrediction implements models.PredictionStore
func (db *DB) StorePrediction(ctx context.Context, p *models.PredictionResult) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("failed to marshal factors: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO predictions (
			id, created_at, current_price, predicted_price, confidence, recommendation,
			strength, timeframe, risk_level, entry_price, stop_loss, take_profit, factors, data_source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.GeneratedAt, p.CurrentPrice, p.PredictedPrice, p.Confidence, string(p.Recommendation),
		p.Strength, string(p.Timeframe), string(p.RiskLevel), p.EntryPrice, p.StopLoss, p.TakeProfit,
		string(factors), string(p.DataSource))
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	db.logger.Debug().Str("id", p.ID).Msg("Stored prediction")
	return nil
}

// HistoricalPredictions returns predictions made since the given time, newest first
func (db *DB) HistoricalPredictions(ctx context.Context, since time.Time) ([]models.PredictionRecord, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	records := []models.PredictionRecord{}
	err := db.SelectContext(ctx, &records, `
		SELECT id, created_at, current_price, predicted_price, confidence, recommendation,
			strength, timeframe, risk_level, entry_price, stop_loss, take_profit, factors, data_source
		FROM predictions
		WHERE created_at >= $1
		ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	return records, nil
}

// AddGeopoliticalEvent inserts an event and fills in its generated ID
func (db *DB) AddGeopoliticalEvent(ctx context.Context, event *models.GeopoliticalEvent) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	err := db.QueryRowxContext(ctx, `
		INSERT INTO geopolitical_events (date, type, severity, description, impact_on_btc, region, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		event.Date, event.Type, event.Severity, event.Description, event.ImpactOnBTC, event.Region, event.Duration).
		Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to insert geopolitical event: %w", err)
	}
	return nil
}

// GeopoliticalEvents returns events dated on or after since, newest first
func (db *DB) GeopoliticalEvents(ctx context.Context, since time.Time) ([]models.GeopoliticalEvent, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	events := []models.GeopoliticalEvent{}
	err := db.SelectContext(ctx, &events, `
		SELECT id, date, type, severity, description, impact_on_btc, region, duration
		FROM geopolitical_events
		WHERE date >= $1
		ORDER BY date DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query geopolitical events: %w", err)
	}
	return events, nil
}

// StoreWhaleTransaction records a transaction once; a repeated hash is ignored.
// It reports whether a new row was written.
func (db *DB) StoreWhaleTransaction(ctx context.Context, tx models.WhaleTransaction) (bool, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.ExecContext(ctx, `
		INSERT INTO whale_transactions (hash, timestamp, value, usd_value, classification, from_address, to_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (hash) DO NOTHING`,
		tx.Hash, tx.Timestamp, tx.Value, tx.USDValue, tx.Classification, tx.FromAddress, tx.ToAddress)
	if err != nil {
		return false, fmt.Errorf("failed to insert whale transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// WhaleTransactions returns transactions since the given time, newest first
func (db *DB) WhaleTransactions(ctx context.Context, since time.Time) ([]models.WhaleTransaction, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	txs := []models.WhaleTransaction{}
	err := db.SelectContext(ctx, &txs, `
		SELECT hash, timestamp, value, usd_value, classification, from_address, to_address
		FROM whale_transactions
		WHERE timestamp >= $1
		ORDER BY timestamp DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query whale transactions: %w", err)
	}
	return txs, nil
}

// UpsertMacroSample writes one daily macro row, replacing any row for the same date
func (db *DB) UpsertMacroSample(ctx context.Context, s models.MacroSample) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		INSERT INTO macro_indicators (date, btc_price, sp500, gold_price, dollar_index, oil_price, vix_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date)
		DO UPDATE SET
			btc_price = EXCLUDED.btc_price,
			sp500 = EXCLUDED.sp500,
			gold_price = EXCLUDED.gold_price,
			dollar_index = EXCLUDED.dollar_index,
			oil_price = EXCLUDED.oil_price,
			vix_index = EXCLUDED.vix_index`,
		s.Date, s.BTCPrice, s.SP500, s.Gold, s.DollarIndex, s.Oil, s.VIX)
	if err != nil {
		return fmt.Errorf("failed to upsert macro sample: %w", err)
	}
	return nil
}

// MacroSamples returns daily macro rows since the given time, oldest first
func (db *DB) MacroSamples(ctx context.Context, since time.Time) ([]models.MacroSample, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	samples := []models.MacroSample{}
	err := db.SelectContext(ctx, &samples, `
		SELECT date, btc_price, sp500, gold_price, dollar_index, oil_price, vix_index
		FROM macro_indicators
		WHERE date >= $1
		ORDER BY date ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query macro samples: %w", err)
	}
	return samples, nil
}

// StorePriceHistory upserts price points atomically
func (db *DB) StorePriceHistory(ctx context.Context, points []models.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, db.timeout*time.Duration(len(points)/100+1))
	defer cancel()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO price_history (timestamp, price)
		VALUES ($1, $2)
		ON CONFLICT (timestamp) DO UPDATE SET price = EXCLUDED.price`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Timestamp, p.Price); err != nil {
			return fmt.Errorf("failed to upsert price point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price history: %w", err)
	}

	db.logger.Info().Int("points", len(points)).Msg("Stored price history")
	return nil
}

// PriceHistorySince returns stored prices since the given time, oldest first
func (db *DB) PriceHistorySince(ctx context.Context, since time.Time) ([]models.PricePoint, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	points := []models.PricePoint{}
	err := db.SelectContext(ctx, &points, `
		SELECT timestamp, price
		FROM price_history
		WHERE timestamp >= $1
		ORDER BY timestamp ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	return points, nil
}
