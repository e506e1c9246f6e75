package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/WhalePredictor/models"
)

var syncDays int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch daily BTC prices and store them",
	Long: `Fetch a window of daily BTC/USD prices and upsert them into PostgreSQL
so prediction comparisons have actual prices to match against.

Examples:
  predictor sync
  predictor sync --days 365`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncDays, "days", 90, "Number of days of history to fetch")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", syncDays)
	}
	if !cfg.DatabaseEnabled() {
		return fmt.Errorf("sync needs a database, set DB_HOST")
	}

	ctx := background(cmd)
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	history, err := a.prices.PriceHistory(ctx, syncDays)
	if err != nil {
		return fmt.Errorf("fetching price history: %w", err)
	}
	if history.Source == models.SourceSynthetic {
		return fmt.Errorf("price source unavailable, refusing to store synthetic data")
	}

	if err := a.db.StorePriceHistory(ctx, history.Points); err != nil {
		return err
	}

	log.Info().Int("points", len(history.Points)).Str("source", string(history.Source)).Msg("Price history synced")
	fmt.Fprintf(cmd.OutOrStdout(), "Stored %d historical data points\n", len(history.Points))
	return nil
}
