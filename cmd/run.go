package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valory-xyz/olas-predict/internal/app"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the HTTP API",
	Long: `Starts the Olas Predict backend, which will:
1. Serve bet payouts from the predict subgraph
2. Refresh the live agents average from the registry subgraph
3. Serve achievement data and og-images from blob storage
4. Prerender recent achievement pages when called by the cron job`,
	RunE: runServer,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
