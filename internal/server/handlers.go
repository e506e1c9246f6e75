package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Alias1177/WhalePredictor/internal/trading/backtest"
	"github.com/Alias1177/WhalePredictor/models"
)

const (
	defaultHistoryDays     = 30
	defaultComparisonHours = 24
	defaultSyncDays        = 90
	syncSampleSize         = 10
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Error: msg})
}

// positiveQuery parses a positive integer query parameter, falling back to def
func positiveQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.deps.Store == nil {
		fail(c, http.StatusServiceUnavailable, "Persistence is not configured")
		return false
	}
	return true
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) currentPrediction(c *gin.Context) {
	tf, err := models.ParseTimeframe(c.Query("timeframe"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.predictionTimeout)
	defer cancel()

	prediction, err := s.deps.Predictor.Predict(ctx, tf)
	if err != nil {
		s.logger.Error().Err(err).Str("timeframe", string(tf)).Msg("Error generating prediction")
		if errors.Is(err, models.ErrInvalidInputData) {
			fail(c, http.StatusUnprocessableEntity, "Insufficient or invalid price data")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to generate prediction")
		return
	}

	respond(c, http.StatusOK, prediction)
}

func (s *Server) predictionHistory(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	days := positiveQuery(c, "days", defaultHistoryDays)
	records, err := s.deps.Store.HistoricalPredictions(c.Request.Context(), models.DaysAgo(s.now(), days))
	if err != nil {
		s.logger.Error().Err(err).Int("days", days).Msg("Error fetching prediction history")
		fail(c, http.StatusInternalServerError, "Failed to fetch prediction history")
		return
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}

	respond(c, http.StatusOK, records)
}

type comparisonResponse struct {
	Comparisons []models.PredictionComparison `json:"comparisons"`
	Summary     models.ComparisonSummary      `json:"summary"`
}

func (s *Server) predictionComparison(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	hours := positiveQuery(c, "hours", defaultComparisonHours)
	since := s.now().Add(-time.Duration(hours) * time.Hour)
	ctx := c.Request.Context()

	records, err := s.deps.Store.HistoricalPredictions(ctx, since)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching predictions for comparison")
		fail(c, http.StatusInternalServerError, "Failed to fetch prediction comparison")
		return
	}
	prices, err := s.deps.Store.PriceHistorySince(ctx, since)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching prices for comparison")
		fail(c, http.StatusInternalServerError, "Failed to fetch prediction comparison")
		return
	}

	comparisons := backtest.Compare(records, prices)
	respond(c, http.StatusOK, comparisonResponse{
		Comparisons: comparisons,
		Summary:     backtest.Summarize(comparisons),
	})
}

type eventRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Type        string    `json:"type" binding:"required"`
	Severity    float64   `json:"severity" binding:"required,min=1,max=10"`
	Description string    `json:"description" binding:"required"`
	ImpactOnBTC float64   `json:"impactOnBTC"`
	Region      string    `json:"region"`
	Duration    int       `json:"duration" binding:"min=0"`
}

func (s *Server) addEvent(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	event := models.GeopoliticalEvent{
		Date:        req.Date.UTC(),
		Type:        req.Type,
		Severity:    req.Severity,
		Description: req.Description,
		ImpactOnBTC: req.ImpactOnBTC,
		Region:      req.Region,
		Duration:    req.Duration,
	}
	if err := s.deps.Store.AddGeopoliticalEvent(c.Request.Context(), &event); err != nil {
		s.logger.Error().Err(err).Msg("Error adding geopolitical event")
		fail(c, http.StatusInternalServerError, "Failed to add geopolitical event")
		return
	}

	respond(c, http.StatusCreated, event)
}

type syncRequest struct {
	Days int `json:"days"`
}

func (s *Server) syncHistorical(c *gin.Context) {
	var req syncRequest
	// an empty body means the default window
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Days <= 0 {
		req.Days = defaultSyncDays
	}

	ctx := c.Request.Context()
	history, err := s.deps.Prices.PriceHistory(ctx, req.Days)
	if err != nil {
		s.logger.Error().Err(err).Int("days", req.Days).Msg("Error syncing historical data")
		fail(c, http.StatusInternalServerError, "Failed to sync historical data")
		return
	}

	// synthetic series must never end up next to real prices
	stored := false
	if s.deps.Store != nil && history.Source != models.SourceSynthetic {
		if err := s.deps.Store.StorePriceHistory(ctx, history.Points); err != nil {
			s.logger.Error().Err(err).Msg("Error storing historical data")
			fail(c, http.StatusInternalServerError, "Failed to sync historical data")
			return
		}
		stored = true
	}

	sample := history.Points
	if len(sample) > syncSampleSize {
		sample = sample[len(sample)-syncSampleSize:]
	}
	if sample == nil {
		sample = []models.PricePoint{}
	}

	s.logger.Info().
		Int("points", len(history.Points)).
		Str("source", string(history.Source)).
		Bool("stored", stored).
		Msg("Historical prices synced")

	c.JSON(http.StatusOK, envelope{
		Success: true,
		Message: fmt.Sprintf("Fetched %d historical data points", len(history.Points)),
		Data: gin.H{
			"source": history.Source,
			"stored": stored,
			"points": sample,
		},
	})
}

type whaleRequest struct {
	Hash           string    `json:"hash" binding:"required"`
	Timestamp      time.Time `json:"timestamp"`
	Value          float64   `json:"value" binding:"gt=0"`
	USDValue       float64   `json:"usdValue" binding:"min=0"`
	Classification string    `json:"classification" binding:"required"`
	FromAddress    string    `json:"fromAddress"`
	ToAddress      string    `json:"toAddress"`
}

func validClassification(c string) bool {
	switch c {
	case models.ClassificationExchangeWithdrawal, models.ClassificationExchangeDeposit, models.ClassificationLargeTransfer:
		return true
	}
	return false
}

func (s *Server) addWhaleTransaction(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	var req whaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if !validClassification(req.Classification) {
		fail(c, http.StatusBadRequest, fmt.Sprintf("unknown classification %q", req.Classification))
		return
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = s.now()
	}

	tx := models.WhaleTransaction{
		Hash:           req.Hash,
		Timestamp:      req.Timestamp.UTC(),
		Value:          req.Value,
		USDValue:       req.USDValue,
		Classification: req.Classification,
		FromAddress:    req.FromAddress,
		ToAddress:      req.ToAddress,
	}
	inserted, err := s.deps.Store.StoreWhaleTransaction(c.Request.Context(), tx)
	if err != nil {
		s.logger.Error().Err(err).Str("hash", tx.Hash).Msg("Error storing whale transaction")
		fail(c, http.StatusInternalServerError, "Failed to store whale transaction")
		return
	}

	status := http.StatusCreated
	if !inserted {
		status = http.StatusOK
	}
	respond(c, status, gin.H{"transaction": tx, "inserted": inserted})
}

type macroRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	BTCPrice    float64   `json:"btcPrice" binding:"gt=0"`
	SP500       float64   `json:"sp500" binding:"min=0"`
	Gold        float64   `json:"goldPrice" binding:"min=0"`
	DollarIndex float64   `json:"dollarIndex" binding:"min=0"`
	Oil         float64   `json:"oilPrice" binding:"min=0"`
	VIX         float64   `json:"vixIndex" binding:"min=0"`
}

func (s *Server) upsertMacroSample(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}

	var req macroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	d := req.Date.UTC()
	sample := models.MacroSample{
		Date:        time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		BTCPrice:    req.BTCPrice,
		SP500:       req.SP500,
		Gold:        req.Gold,
		DollarIndex: req.DollarIndex,
		Oil:         req.Oil,
		VIX:         req.VIX,
	}
	if err := s.deps.Store.UpsertMacroSample(c.Request.Context(), sample); err != nil {
		s.logger.Error().Err(err).Msg("Error storing macro sample")
		fail(c, http.StatusInternalServerError, "Failed to store macro sample")
		return
	}

	respond(c, http.StatusOK, sample)
}
