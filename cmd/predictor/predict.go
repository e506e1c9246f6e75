package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alias1177/WhalePredictor/models"
)

var predictTimeframe string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate one prediction and print it as JSON",
	Long: `Run the full prediction pipeline once and write the result to stdout.

Examples:
  predictor predict
  predictor predict --timeframe 7d`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictTimeframe, "timeframe", string(models.DefaultTimeframe), "Prediction horizon label: 1h, 24h, 7d or 30d")
}

func runPredict(cmd *cobra.Command, args []string) error {
	tf, err := models.ParseTimeframe(predictTimeframe)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(background(cmd), cfg.PredictionTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.predictor.Predict(ctx, tf)
	if err != nil {
		return fmt.Errorf("generating prediction: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
