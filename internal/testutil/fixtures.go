package testutil

import (
	"strconv"

	"github.com/valory-xyz/olas-predict/pkg/types"
)

// TestTxHash is a well-formed 32-byte transaction hash.
const TestTxHash = "0x5e1f0a6c3b2d4e5f60718293a4b5c6d7e8f90123456789abcdef0123456789ab"

// CreateTestBet creates a resolved two-outcome bet.
// The bet staked 2.50 on "No" holding 10 shares, each paying 0.24.
func CreateTestBet(id string, bettorID string, questionID string) *types.Bet {
	return &types.Bet{
		ID:              id,
		TransactionHash: TestTxHash,
		OutcomeIndex:    "1",
		Amount:          "2500000",
		Shares:          "10000000",
		Bettor:          &types.Bettor{ID: bettorID},
		Question: &types.Question{
			ID: questionID,
			Metadata: &types.QuestionMetadata{
				Title:    "Will ETH close above $4,000 on Friday?",
				Outcomes: []string{"Yes", "No"},
			},
			Resolution: &types.QuestionResolution{
				Payouts: []string{"0", "240000"},
			},
		},
	}
}

// CreateTestParticipant creates a market participant for bettor and question.
func CreateTestParticipant(bettorID string, questionID string, totalPayout string) *types.MarketParticipant {
	return &types.MarketParticipant{
		ID:          bettorID + "_" + questionID,
		TotalPayout: totalPayout,
	}
}

// CreateDailyRow creates a daily performance row; count < 0 produces a null count.
func CreateDailyRow(dayTimestamp int64, count int) types.DailyAgentPerformance {
	row := types.DailyAgentPerformance{DayTimestamp: strconv.FormatInt(dayTimestamp, 10)}
	if count >= 0 {
		c := strconv.Itoa(count)
		row.ActiveMultisigCount = &c
	}
	return row
}
