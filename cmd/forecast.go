package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JZhaGuo/trafico/config"
	"github.com/JZhaGuo/trafico/core/forecast"
	"github.com/JZhaGuo/trafico/infra/store"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "One-shot forecast from the persisted history",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	hist, err := store.NewCSVStore(cfg.Storage.Path).Load()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	fc := cfg.Forecast
	out := struct {
		Rows     int                     `json:"rows"`
		Horizon  int                     `json:"horizon_steps"`
		Markov   forecast.Result         `json:"markov"`
		Logistic forecast.LogisticResult `json:"logistic"`
	}{Rows: hist.Len(), Horizon: fc.HorizonSteps}

	// Unavailable results are reported in place, with their reason.
	out.Markov, _ = forecast.Markov(hist, fc.HorizonSteps, fc.Congested())
	out.Logistic, _ = forecast.Logistic(hist, fc.HorizonSteps, fc.Threshold(), fc.Classifier)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
