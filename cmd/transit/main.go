package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	transit "github.com/drakos74/free-transit/internal"
	"github.com/drakos74/free-transit/internal/catalogue"
	"github.com/drakos74/free-transit/internal/config"
	"github.com/drakos74/free-transit/internal/trainer"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "transit",
		Short: "Classify transit signals as exoplanet candidates or false positives",
		Long: `Classify transit signals of the kepler mission and similar surveys
as confirmed planets, candidates or false positives.

Configuration is read from the environment, see the service README.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(recordsCmd())

	ctx, cnl := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cnl()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// open creates the engine from the configuration.
// The configured model is only loaded if the command classifies.
func open(ctx context.Context, classify bool) (*transit.Engine, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	cfg.SetupLogging()

	shard, closeStorage, err := cfg.Shard(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	repository, err := catalogue.NewRepository(shard)
	if err != nil {
		_ = closeStorage()
		return nil, nil, nil, err
	}
	reports, err := trainer.NewReports(shard)
	if err != nil {
		_ = closeStorage()
		return nil, nil, nil, err
	}

	engine := transit.NewEngine(transit.Options{
		Classifier: cfg.Classifier,
		Training:   cfg.Training,
		Forest:     cfg.Model == config.ForestModel,
		Dataset:    cfg.Dataset,
		Fallback:   cfg.Fallback,
		Workers:    cfg.Workers,
		Aliases:    cfg.Aliases,
	}, repository, reports)
	if classify {
		if err := engine.Start(); err != nil {
			_ = closeStorage()
			return nil, nil, nil, err
		}
	}
	return engine, cfg, func() { _ = closeStorage() }, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
