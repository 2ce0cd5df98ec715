package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JZhaGuo/trafico/config"
	"github.com/JZhaGuo/trafico/core/classifier"
	"github.com/JZhaGuo/trafico/core/features"
	"github.com/JZhaGuo/trafico/infra/store"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier on the persisted history and report metrics",
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	hist, err := store.NewCSVStore(cfg.Storage.Path).Load()
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	fc := cfg.Forecast
	examples, err := features.Build(hist.Snapshot(), fc.HorizonSteps, fc.Threshold())
	if err != nil {
		return err
	}
	model, err := classifier.Train(examples, fc.Classifier)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	out := struct {
		Rows     int     `json:"rows"`
		Examples int     `json:"examples"`
		Accuracy float64 `json:"accuracy"`
		ROCAUC   float64 `json:"roc_auc"`
	}{Rows: hist.Len(), Examples: len(examples), Accuracy: model.Accuracy, ROCAUC: model.ROCAUC}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
