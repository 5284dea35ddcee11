package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valory-xyz/olas-predict/internal/app"
	"github.com/valory-xyz/olas-predict/internal/liveagents"
)

//nolint:gochecknoglobals // Cobra boilerplate
var liveAgentsCmd = &cobra.Command{
	Use:   "live-agents",
	Short: "Compute the 7-day live agents average once",
	Long: `Queries the registry subgraph for daily active multisig counts of the
configured predict agents and prints the 7-day average.`,
	RunE: runLiveAgents,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(liveAgentsCmd)
}

func runLiveAgents(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	service, err := app.NewLiveAgentsService(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create live agents service: %w", err)
	}

	result := service.Fetch(ctx)
	if result.IsFailure() {
		return fmt.Errorf("fetch live agents: %w", result.Err)
	}

	keys := liveagents.WindowKeys(liveagents.MidnightUTC(time.Now()))
	fmt.Printf("Window:      %s .. %s (UTC)\n", keys[0], keys[len(keys)-1])
	fmt.Printf("Live agents: %d\n", result.Value)

	return nil
}
