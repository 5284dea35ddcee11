package types

// Bet represents a single bet placed by an agent, as returned by the predict subgraph.
// Numeric fields are base-10 integer strings in 6-decimal fixed-point units.
type Bet struct {
	ID              string    `json:"id"`
	TransactionHash string    `json:"transactionHash"`
	OutcomeIndex    string    `json:"outcomeIndex"`
	Amount          string    `json:"amount"`
	Shares          string    `json:"shares"`
	Bettor          *Bettor   `json:"bettor"`
	Question        *Question `json:"question"`
}

// Bettor is the account that placed a bet.
type Bettor struct {
	ID string `json:"id"`
}

// Question is the market a bet was placed on.
type Question struct {
	ID         string              `json:"id"`
	Metadata   *QuestionMetadata   `json:"metadata"`
	Resolution *QuestionResolution `json:"resolution"`
}

// QuestionMetadata holds the human-readable market title and its ordered outcome labels.
type QuestionMetadata struct {
	Title    string   `json:"title"`
	Outcomes []string `json:"outcomes"`
}

// QuestionResolution holds per-outcome payout-per-share values once a market resolves.
type QuestionResolution struct {
	Payouts []string `json:"payouts"`
}

// MarketParticipant aggregates a bettor's position on a single question.
// Its ID is the composite "{bettorId}_{questionId}".
type MarketParticipant struct {
	ID          string `json:"id"`
	TotalPayout string `json:"totalPayout"`
}

// BettorID returns the bettor identifier or "" when absent.
func (b *Bet) BettorID() string {
	if b == nil || b.Bettor == nil {
		return ""
	}
	return b.Bettor.ID
}

// QuestionID returns the question identifier or "" when absent.
func (b *Bet) QuestionID() string {
	if b == nil || b.Question == nil {
		return ""
	}
	return b.Question.ID
}

// TransformedBet is the display-ready projection of a bet used by achievement cards.
type TransformedBet struct {
	Question           string  `json:"question"`
	Position           string  `json:"position"`
	TransactionHash    string  `json:"transactionHash"`
	TransactionURL     string  `json:"transactionUrl,omitempty"`
	BetAmount          float64 `json:"betAmount"`
	AmountWon          float64 `json:"amountWon"`
	BetAmountFormatted string  `json:"betAmountFormatted"`
	AmountWonFormatted string  `json:"amountWonFormatted"`
	Multiplier         string  `json:"multiplier"`
}
