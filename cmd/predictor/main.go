package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/WhalePredictor/internal/config"
)

var cfg *config.Config

// rootCmd is the base command for the WhalePredictor CLI
var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Heuristic Bitcoin prediction service",
	Long: `WhalePredictor scores Bitcoin buy/sell/short/hold recommendations from
technical indicators, macro correlations, whale flows and geopolitical events.

Configuration is read from the environment (and a .env file if present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		setupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, predictCmd, syncCmd)
}

func setupLogger(c *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
