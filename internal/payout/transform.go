package payout

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/valory-xyz/olas-predict/pkg/types"
)

// Transform projects a settlement into display values. Returns nil for nil.
func Transform(s *Settlement) *types.TransformedBet {
	if s == nil {
		return nil
	}

	betAmount := toUnits(s.Amount)
	amountWon := toUnits(s.Payout)

	return &types.TransformedBet{
		Question:           s.Title,
		Position:           s.Position,
		TransactionHash:    s.TransactionHash,
		BetAmount:          betAmount.InexactFloat64(),
		AmountWon:          amountWon.InexactFloat64(),
		BetAmountFormatted: FormatUSD(betAmount),
		AmountWonFormatted: FormatUSD(amountWon),
		Multiplier:         Multiplier(amountWon, betAmount),
	}
}

// FormatUSD renders an amount as "$12.34", rounding half up.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Multiplier returns won/bet with 2 decimals, or "0.00" if either side is zero.
func Multiplier(won decimal.Decimal, bet decimal.Decimal) string {
	if bet.IsZero() || won.IsZero() {
		return "0.00"
	}
	return won.DivRound(bet, 2).StringFixed(2)
}

// TransactionURL links a transaction on the block explorer.
// Returns "" unless hash is a 0x-prefixed 32-byte hex string.
func TransactionURL(explorerURL string, hash string) string {
	if explorerURL == "" {
		return ""
	}

	b, err := hexutil.Decode(hash)
	if err != nil || len(b) != common.HashLength {
		return ""
	}

	return explorerURL + "/tx/" + common.BytesToHash(b).Hex()
}

func toUnits(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -USDCDecimals)
}
