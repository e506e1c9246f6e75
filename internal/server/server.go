package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WhalePredictor/internal/metrics"
	"github.com/Alias1177/WhalePredictor/models"
)

const (
	defaultPredictionTimeout = 45 * time.Second
	shutdownTimeout          = 10 * time.Second
)

// Predictor produces a prediction for a timeframe
type Predictor interface {
	Predict(ctx context.Context, timeframe models.Timeframe) (*models.PredictionResult, error)
}

// Store is the persistence surface used by the API
type Store interface {
	HistoricalPredictions(ctx context.Context, since time.Time) ([]models.PredictionRecord, error)
	AddGeopoliticalEvent(ctx context.Context, event *models.GeopoliticalEvent) error
	StoreWhaleTransaction(ctx context.Context, tx models.WhaleTransaction) (bool, error)
	UpsertMacroSample(ctx context.Context, s models.MacroSample) error
	StorePriceHistory(ctx context.Context, points []models.PricePoint) error
	PriceHistorySince(ctx context.Context, since time.Time) ([]models.PricePoint, error)
}

// Dependencies wires the API to the rest of the service. Store may be nil when
// persistence is disabled; routes that need it answer 503.
type Dependencies struct {
	Predictor Predictor
	Prices    models.PriceHistoryProvider
	Store     Store
	Metrics   *metrics.Registry
}

// Options tunes the HTTP server
type Options struct {
	Port              string
	PredictionTimeout time.Duration
}

// Server exposes the prediction API over HTTP
type Server struct {
	deps              Dependencies
	engine            *gin.Engine
	port              string
	predictionTimeout time.Duration
	now               func() time.Time
	logger            zerolog.Logger
}

// New builds the gin engine and registers every route
func New(deps Dependencies, opts Options) *Server {
	if opts.PredictionTimeout <= 0 {
		opts.PredictionTimeout = defaultPredictionTimeout
	}
	if opts.Port == "" {
		opts.Port = "3001"
	}

	s := &Server{
		deps:              deps,
		engine:            gin.New(),
		port:              opts.Port,
		predictionTimeout: opts.PredictionTimeout,
		now:               time.Now,
		logger:            log.With().Str("component", "server").Logger(),
	}

	s.engine.Use(gin.Recovery(), requestLogger(s.logger))
	if deps.Metrics != nil {
		s.engine.Use(requestMetrics(deps.Metrics))
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.health)

	predictions := api.Group("/predictions")
	predictions.GET("/current", s.currentPrediction)
	predictions.GET("/history", s.predictionHistory)
	predictions.GET("/comparison", s.predictionComparison)
	predictions.POST("/events", s.addEvent)
	predictions.POST("/sync-historical", s.syncHistorical)

	api.POST("/whales/transactions", s.addWhaleTransaction)
	api.POST("/macro/samples", s.upsertMacroSample)

	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
