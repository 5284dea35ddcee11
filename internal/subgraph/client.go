package subgraph

import (
	"context"
	"fmt"

	"github.com/valory-xyz/olas-predict/pkg/graphql"
	"github.com/valory-xyz/olas-predict/pkg/types"
)

// Querier executes a GraphQL query; *graphql.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, operation string, query string, variables map[string]interface{}, out interface{}) error
}

var _ Querier = (*graphql.Client)(nil)

// Client runs the typed predict and registry subgraph queries.
type Client struct {
	querier Querier
}

// NewClient creates a new subgraph client.
func NewClient(querier Querier) *Client {
	return &Client{querier: querier}
}

// Bet fetches a bet by ID. Returns (nil, nil) when the subgraph has no such bet.
func (c *Client) Bet(ctx context.Context, id string) (*types.Bet, error) {
	var data struct {
		Bet *types.Bet `json:"bet"`
	}

	err := c.querier.Query(ctx, "getBet", getBetQuery, map[string]interface{}{"id": id}, &data)
	if err != nil {
		return nil, fmt.Errorf("query bet %s: %w", id, err)
	}

	return data.Bet, nil
}

// MarketParticipant fetches a participant by composite ID.
// Returns (nil, nil) when the subgraph has no such participant.
func (c *Client) MarketParticipant(ctx context.Context, id string) (*types.MarketParticipant, error) {
	var data struct {
		MarketParticipant *types.MarketParticipant `json:"marketParticipant"`
	}

	err := c.querier.Query(ctx, "getMarketParticipant", getMarketParticipantQuery, map[string]interface{}{"id": id}, &data)
	if err != nil {
		return nil, fmt.Errorf("query market participant %s: %w", id, err)
	}

	return data.MarketParticipant, nil
}

// DailyAgentPerformances fetches per-agent daily rows with gt < dayTimestamp < lt.
// A null list is returned as an empty slice.
func (c *Client) DailyAgentPerformances(ctx context.Context, agentIDs []int, gt int64, lt int64) ([]types.DailyAgentPerformance, error) {
	var data struct {
		DailyAgentPerformances []types.DailyAgentPerformance `json:"dailyAgentPerformances"`
	}

	variables := map[string]interface{}{
		"agentIds":     agentIDs,
		"timestamp_gt": gt,
		"timestamp_lt": lt,
	}

	err := c.querier.Query(ctx, "getDailyAgentPerformances", getDailyAgentPerformancesQuery, variables, &data)
	if err != nil {
		return nil, fmt.Errorf("query daily agent performances: %w", err)
	}

	if data.DailyAgentPerformances == nil {
		return []types.DailyAgentPerformance{}, nil
	}

	return data.DailyAgentPerformances, nil
}
