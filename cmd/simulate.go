package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JZhaGuo/trafico/config"
	"github.com/JZhaGuo/trafico/infra/logger"
	"github.com/JZhaGuo/trafico/infra/mqtt"
	"github.com/JZhaGuo/trafico/infra/store"
	"github.com/JZhaGuo/trafico/simulator"
)

var (
	simRows    int
	simSeed    int64
	simOut     string
	simPublish bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate a synthetic observation feed",
	Long: "Generate synthetic observations with a weekday rush-hour profile and " +
		"either append them to a CSV history or publish them to the MQTT feed.",
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simRows, "rows", 500, "number of observations to generate")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "random seed")
	simulateCmd.Flags().StringVar(&simOut, "out", "", "CSV file to append to (defaults to the configured history path)")
	simulateCmd.Flags().BoolVar(&simPublish, "publish", false, "publish to the MQTT feed instead of writing a file")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	start := time.Now().UTC().Add(-time.Duration(simRows) * time.Minute).Truncate(time.Minute)
	gen := simulator.New(simSeed, start, time.Minute)
	obs := gen.Series(simRows)
	log := logger.New("simulate")

	if simPublish {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return err
		}
		defer pub.Close()
		for _, o := range obs {
			if err := pub.Publish(o); err != nil {
				return err
			}
		}
		log.Infof("published %d observations to %s", len(obs), cfg.MQTT.Topic)
		return nil
	}

	path := simOut
	if path == "" {
		path = cfg.Storage.Path
	}
	if err := store.NewCSVStore(path).Append(obs); err != nil {
		return err
	}
	log.Infof("appended %d observations to %s", len(obs), path)
	return nil
}
