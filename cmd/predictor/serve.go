package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Alias1177/WhalePredictor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the prediction API and Prometheus metrics on PORT.

Examples:
  predictor serve
  PORT=8080 LOG_PRETTY=true predictor serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	gin.SetMode(gin.ReleaseMode)

	deps := server.Dependencies{
		Predictor: a.predictor,
		Prices:    a.prices,
		Metrics:   a.metrics,
	}
	// a typed nil *database.DB must not reach the interface
	if a.db != nil {
		deps.Store = a.db
	}

	return server.New(deps, server.Options{
		Port:              cfg.Port,
		PredictionTimeout: cfg.PredictionTimeout,
	}).Run(ctx)
}

// background is used when cobra runs without a context
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
