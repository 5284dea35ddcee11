package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/valory-xyz/olas-predict/pkg/config"
	"go.uber.org/zap"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "olas-predict",
	Short: "Olas Predict backend",
	Long: `Olas Predict backend that turns raw prediction-market subgraph records
into display-ready JSON for the front-end.

It resolves bet payouts, keeps the 7-day live agents average warm, serves
achievement card data and og-images, and prerenders recent achievement pages.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadDotEnv,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadDotEnv loads .env into the environment. A missing file is not an error.
func loadDotEnv(_ *cobra.Command, _ []string) error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// setup loads config and creates the logger. Callers must Sync the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}
