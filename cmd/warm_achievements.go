package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/valory-xyz/olas-predict/internal/achievements"
	"github.com/valory-xyz/olas-predict/internal/app"
)

//nolint:gochecknoglobals // Cobra boilerplate
var warmAchievementsCmd = &cobra.Command{
	Use:   "warm-achievements",
	Short: "Prerender recent polystrat payout achievement pages",
	Long: `Loads the polystrat payout lookup file from blob storage and requests
every achievement page created within WARM_LOOKBACK so share previews are cached.`,
	RunE: runWarmAchievements,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(warmAchievementsCmd)
}

func runWarmAchievements(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := app.NewStorage(cfg, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	resolver, err := app.NewResolver(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}

	warmer, err := app.NewWarmer(cfg, logger, resolver, store)
	if err != nil {
		return fmt.Errorf("create warmer: %w", err)
	}

	result, err := warmer.Warm(ctx)
	if err != nil {
		return fmt.Errorf("warm achievements: %w", err)
	}

	printWarmResult(os.Stdout, result)
	return nil
}

// printWarmResult writes a warm run summary followed by each warmed page and error.
func printWarmResult(out io.Writer, result *achievements.WarmResult) {
	fmt.Fprintf(out, "Warmed %d page(s), %d failed\n", result.Success, result.Failed)
	for _, page := range result.Warmed {
		fmt.Fprintf(out, "  ok    %s\n", page)
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  error %s\n", msg)
	}
}
