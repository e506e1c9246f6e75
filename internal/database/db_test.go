package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/WhalePredictor/models"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewWithDB(conn, time.Second), mock
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)

	for range schema {
		mock.ExpectExec(regexp.QuoteMeta("CREATE")).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_Error(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS predictions").WillReturnError(errors.New("permission denied"))

	err := db.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating schema")
}

func TestStorePrediction(t *testing.T) {
	db, mock := newMock(t)

	entry, stop, target := 95000.0, 90250.0, 100700.0
	p := &models.PredictionResult{
		ID:             "3f1c9a52-0d0e-4a51-9d0c-8c6a1f1d2b10",
		GeneratedAt:    time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		Recommendation: models.RecommendationBuy,
		Confidence:     74,
		PredictedPrice: 100700,
		CurrentPrice:   95000,
		Strength:       6,
		Timeframe:      models.Timeframe24h,
		RiskLevel:      models.RiskLow,
		Factors:        []models.Factor{{Name: "Golden Cross Pattern", Impact: 4, Description: "All major moving averages aligned bullishly"}},
		EntryPrice:     &entry,
		StopLoss:       &stop,
		TakeProfit:     &target,
		DataSource:     models.SourceLive,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO predictions")).
		WithArgs(p.ID, p.GeneratedAt, 95000.0, 100700.0, 74.0, "buy", 6.0, "24h", "low",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			`[{"name":"Golden Cross Pattern","impact":4,"description":"All major moving averages aligned bullishly"}]`,
			"live").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.StorePrediction(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePrediction_Error(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO predictions")).WillReturnError(errors.New("connection reset"))

	err := db.StorePrediction(context.Background(), &models.PredictionResult{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert prediction")
}

func TestHistoricalPredictions(t *testing.T) {
	db, mock := newMock(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "created_at", "current_price", "predicted_price", "confidence", "recommendation",
		"strength", "timeframe", "risk_level", "entry_price", "stop_loss", "take_profit", "factors", "data_source",
	}).
		AddRow("a", created, 90000.0, 90450.0, 54.0, "hold", 1.0, "24h", "low", nil, nil, nil, "[]", "live").
		AddRow("b", created.Add(-time.Hour), 91000.0, 86450.0, 78.0, "short", 7.0, "7d", "medium", 91000.0, 95550.0, 86450.0, "[]", "synthetic")

	mock.ExpectQuery(regexp.QuoteMeta("FROM predictions")).WithArgs(since).WillReturnRows(rows)

	records, err := db.HistoricalPredictions(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "a", records[0].ID)
	assert.Nil(t, records[0].EntryPrice)
	assert.Equal(t, created, records[0].Timestamp)
	assert.Equal(t, "short", records[1].Recommendation)
	require.NotNil(t, records[1].StopLoss)
	assert.Equal(t, 95550.0, *records[1].StopLoss)
	assert.Equal(t, "synthetic", records[1].DataSource)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddGeopoliticalEvent(t *testing.T) {
	db, mock := newMock(t)
	event := &models.GeopoliticalEvent{
		Date:        time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Type:        "sanctions",
		Severity:    7,
		Description: "New export controls",
		ImpactOnBTC: -4,
		Region:      "EU",
		Duration:    14,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO geopolitical_events")).
		WithArgs(event.Date, "sanctions", 7.0, "New export controls", -4.0, "EU", 14).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, db.AddGeopoliticalEvent(context.Background(), event))
	assert.Equal(t, int64(42), event.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGeopoliticalEvents(t *testing.T) {
	db, mock := newMock(t)
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "date", "type", "severity", "description", "impact_on_btc", "region", "duration"}).
		AddRow(int64(1), since.AddDate(0, 0, 3), "election", 5.0, "Snap election", 2.0, "US", 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM geopolitical_events")).WithArgs(since).WillReturnRows(rows)

	events, err := db.GeopoliticalEvents(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "election", events[0].Type)
	assert.Equal(t, 2.0, events[0].ImpactOnBTC)
}

func TestStoreWhaleTransaction(t *testing.T) {
	tx := models.WhaleTransaction{
		Hash:           "abc123",
		Timestamp:      time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		Value:          850,
		USDValue:       80750000,
		Classification: models.ClassificationExchangeWithdrawal,
		FromAddress:    "bc1qexchange",
		ToAddress:      "bc1qcold",
	}

	t.Run("new row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (hash) DO NOTHING")).
			WithArgs("abc123", tx.Timestamp, 850.0, 80750000.0, "Exchange Withdrawal", "bc1qexchange", "bc1qcold").
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := db.StoreWhaleTransaction(context.Background(), tx)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("duplicate hash", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO whale_transactions")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := db.StoreWhaleTransaction(context.Background(), tx)
		require.NoError(t, err)
		assert.False(t, inserted)
	})
}

func TestWhaleTransactions(t *testing.T) {
	db, mock := newMock(t)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"hash", "timestamp", "value", "usd_value", "classification", "from_address", "to_address"}).
		AddRow("h1", since.Add(time.Hour), 500.0, 4.5e7, "Exchange Deposit", "a", "b").
		AddRow("h2", since.Add(2*time.Hour), 1200.0, 1.1e8, "Exchange Withdrawal", "c", "d")
	mock.ExpectQuery(regexp.QuoteMeta("FROM whale_transactions")).WithArgs(since).WillReturnRows(rows)

	txs, err := db.WhaleTransactions(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, models.ClassificationExchangeDeposit, txs[0].Classification)
	assert.Equal(t, 1200.0, txs[1].Value)
}

func TestUpsertMacroSample(t *testing.T) {
	db, mock := newMock(t)
	s := models.MacroSample{
		Date:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		BTCPrice: 94000, SP500: 5600, Gold: 2900, DollarIndex: 103.2, Oil: 71.5, VIX: 16.4,
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (date)")).
		WithArgs(s.Date, 94000.0, 5600.0, 2900.0, 103.2, 71.5, 16.4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.UpsertMacroSample(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMacroSamples(t *testing.T) {
	db, mock := newMock(t)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"date", "btc_price", "sp500", "gold_price", "dollar_index", "oil_price", "vix_index"}).
		AddRow(since, 90000.0, 5500.0, 0.0, 104.0, 70.0, 18.0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM macro_indicators")).WithArgs(since).WillReturnRows(rows)

	samples, err := db.MacroSamples(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 0.0, samples[0].Gold)
	assert.Equal(t, 18.0, samples[0].VIX)
}

func TestStorePriceHistory(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	points := []models.PricePoint{
		{Timestamp: start, Price: 94000},
		{Timestamp: start.AddDate(0, 0, 1), Price: 95000},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO price_history"))
	prep.ExpectExec().WithArgs(start, 94000.0).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(start.AddDate(0, 0, 1), 95000.0).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, db.StorePriceHistory(context.Background(), points))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePriceHistory_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO price_history"))
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := db.StorePriceHistory(context.Background(), []models.PricePoint{{Timestamp: start, Price: 1}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorePriceHistory_Empty(t *testing.T) {
	db, mock := newMock(t)
	require.NoError(t, db.StorePriceHistory(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceHistorySince(t *testing.T) {
	db, mock := newMock(t)
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"timestamp", "price"}).
		AddRow(since, 94000.0).
		AddRow(since.AddDate(0, 0, 1), 95000.0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM price_history")).WithArgs(since).WillReturnRows(rows)

	points, err := db.PriceHistorySince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 95000.0, points[1].Price)
}
