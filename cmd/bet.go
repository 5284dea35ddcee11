package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/valory-xyz/olas-predict/internal/app"
	"github.com/valory-xyz/olas-predict/internal/bets"
	"github.com/valory-xyz/olas-predict/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var betCmd = &cobra.Command{
	Use:   "bet <bet-id>",
	Short: "Resolve a single bet from the predict subgraph",
	Long: `Fetches a bet and prints its display-ready payout.

The polymarket model computes winnings from shares and resolution payouts.
The polystrat model reads winnings from the bettor's market participant record.`,
	Args: cobra.ExactArgs(1),
	RunE: runBet,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(betCmd)
	betCmd.Flags().StringP("model", "m", string(bets.ModelPolymarket), "Payout model: polymarket or polystrat")
	betCmd.Flags().Bool("json", false, "Print the bet as JSON")
}

func runBet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	model, _ := cmd.Flags().GetString("model")
	asJSON, _ := cmd.Flags().GetBool("json")

	if model != string(bets.ModelPolymarket) && model != string(bets.ModelPolystrat) {
		return fmt.Errorf("invalid model: %s. Valid options: polymarket, polystrat", model)
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	service, err := app.NewBetService(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("create bet service: %w", err)
	}

	result := service.Get(ctx, bets.Model(model), args[0])
	switch result.Status {
	case types.StatusEmpty:
		return fmt.Errorf("bet %s not found", args[0])
	case types.StatusFailure:
		return fmt.Errorf("resolve bet: %w", result.Err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Value)
	}

	return printBet(os.Stdout, result.Value)
}

// printBet writes a transformed bet as an aligned key/value table.
func printBet(out io.Writer, bet *types.TransformedBet) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Question:\t%s\n", bet.Question)
	fmt.Fprintf(w, "Position:\t%s\n", bet.Position)
	fmt.Fprintf(w, "Bet:\t%s\n", bet.BetAmountFormatted)
	fmt.Fprintf(w, "Won:\t%s\n", bet.AmountWonFormatted)
	fmt.Fprintf(w, "Multiplier:\t%sx\n", bet.Multiplier)
	fmt.Fprintf(w, "Transaction:\t%s\n", bet.TransactionHash)
	if bet.TransactionURL != "" {
		fmt.Fprintf(w, "Explorer:\t%s\n", bet.TransactionURL)
	}

	return w.Flush()
}
