package payout

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/valory-xyz/olas-predict/pkg/types"
)

// USDCDecimals is the fixed-point precision of every raw monetary value.
const USDCDecimals = 6

// NotAvailable is shown when a title or position cannot be resolved.
const NotAvailable = "N/A"

// Settlement is the shape-agnostic intermediate form of a bet.
// Both upstream models (embedded resolution payouts and separate participant
// total payout) are normalized into it before Transform runs.
type Settlement struct {
	Title           string
	Position        string
	TransactionHash string
	Amount          *big.Int // raw stake, 6 decimals
	Payout          *big.Int // raw amount won, 6 decimals
}

// FromResolution normalizes a bet that carries its question's resolution payouts.
// Won amount is shares * payoutPerShare[outcomeIndex] / 10^6.
// An unresolved question (no resolution) pays zero.
// Returns (nil, nil) for a nil bet.
func FromResolution(bet *types.Bet) (*Settlement, error) {
	if bet == nil {
		return nil, nil
	}

	s, index, err := newSettlement(bet)
	if err != nil {
		return nil, err
	}

	s.Payout = new(big.Int)
	if bet.Question == nil || bet.Question.Resolution == nil {
		return s, nil
	}

	payouts := bet.Question.Resolution.Payouts
	if index < 0 || index >= len(payouts) {
		return nil, &types.DataIntegrityError{
			Field:  "question.resolution.payouts",
			Value:  strconv.Itoa(index),
			Reason: "outcome index out of range",
		}
	}

	shares, err := parseRaw("shares", bet.Shares)
	if err != nil {
		return nil, err
	}

	perShare, err := parseRaw("question.resolution.payouts", payouts[index])
	if err != nil {
		return nil, err
	}

	s.Payout.Mul(shares, perShare)
	s.Payout.Quo(s.Payout, scale())

	return s, nil
}

// FromParticipant normalizes a bet whose payout comes from the bettor's
// market participant record. Returns (nil, nil) when either input is nil.
func FromParticipant(bet *types.Bet, participant *types.MarketParticipant) (*Settlement, error) {
	if bet == nil || participant == nil {
		return nil, nil
	}

	s, _, err := newSettlement(bet)
	if err != nil {
		return nil, err
	}

	s.Payout, err = parseRaw("totalPayout", participant.TotalPayout)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func newSettlement(bet *types.Bet) (*Settlement, int, error) {
	index, err := parseOutcomeIndex(bet.OutcomeIndex)
	if err != nil {
		return nil, 0, err
	}

	amount, err := parseRaw("amount", bet.Amount)
	if err != nil {
		return nil, 0, err
	}

	s := &Settlement{
		Title:           NotAvailable,
		Position:        NotAvailable,
		TransactionHash: bet.TransactionHash,
		Amount:          amount,
	}

	if bet.Question != nil && bet.Question.Metadata != nil {
		meta := bet.Question.Metadata
		if meta.Title != "" {
			s.Title = meta.Title
		}
		if index >= 0 && index < len(meta.Outcomes) {
			s.Position = meta.Outcomes[index]
		}
	}

	return s, index, nil
}

// parseOutcomeIndex fails fast on anything that is not a base-10 integer.
func parseOutcomeIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &types.DataIntegrityError{Field: "outcomeIndex", Value: raw, Reason: "not an integer"}
	}
	return index, nil
}

// parseRaw parses a non-negative base-10 integer string of any size.
func parseRaw(field string, raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, &types.DataIntegrityError{Field: field, Value: raw, Reason: "not an integer"}
	}
	if value.Sign() < 0 {
		return nil, &types.DataIntegrityError{Field: field, Value: raw, Reason: "negative amount"}
	}
	return value, nil
}

func scale() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(USDCDecimals), nil)
}
