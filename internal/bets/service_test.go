package bets

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valory-xyz/olas-predict/internal/subgraph"
	"github.com/valory-xyz/olas-predict/internal/testutil"
	"github.com/valory-xyz/olas-predict/pkg/cache"
	"github.com/valory-xyz/olas-predict/pkg/graphql"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, source Source, c cache.Cache) *Service {
	t.Helper()

	svc, err := New(&Config{
		Source:      source,
		Cache:       c,
		CacheTTL:    time.Hour,
		ExplorerURL: "https://polygonscan.com",
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return svc
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")

	_, err = New(&Config{Source: testutil.NewMockSource()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger")
}

func TestParticipantID(t *testing.T) {
	tests := []struct {
		name   string
		bet    *types.Bet
		want   string
		wantOK bool
	}{
		{
			name:   "both-ids",
			bet:    testutil.CreateTestBet("0xbet", "0xbettor", "0xq"),
			want:   "0xbettor_0xq",
			wantOK: true,
		},
		{
			name: "missing-bettor",
			bet: func() *types.Bet {
				b := testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
				b.Bettor = nil
				return b
			}(),
		},
		{
			name: "empty-question-id",
			bet:  testutil.CreateTestBet("0xbet", "0xbettor", ""),
		},
		{
			name: "nil-bet",
			bet:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParticipantID(tt.bet)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_PolymarketBet(t *testing.T) {
	source := testutil.NewMockSource()
	source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
	svc := newTestService(t, source, nil)

	result := svc.PolymarketBet(context.Background(), "0xbet")
	require.True(t, result.IsSuccess(), "err: %v", result.Err)

	bet := result.Value
	assert.Equal(t, "No", bet.Position)
	assert.Equal(t, "$2.50", bet.BetAmountFormatted)
	assert.Equal(t, "$2.40", bet.AmountWonFormatted)
	assert.Equal(t, "0.96", bet.Multiplier)
	assert.Equal(t, "https://polygonscan.com/tx/"+testutil.TestTxHash, bet.TransactionURL)

	assert.Equal(t, []string{"bet:0xbet"}, source.Calls())
}

func TestService_PolystratBet_SequentialLookup(t *testing.T) {
	source := testutil.NewMockSource()
	source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
	source.Participants["0xbettor_0xq"] = testutil.CreateTestParticipant("0xbettor", "0xq", "5000000")
	svc := newTestService(t, source, nil)

	result := svc.PolystratBet(context.Background(), "0xbet")
	require.True(t, result.IsSuccess(), "err: %v", result.Err)

	assert.Equal(t, "$5.00", result.Value.AmountWonFormatted)
	assert.Equal(t, "2.00", result.Value.Multiplier)
	assert.Equal(t, []string{"bet:0xbet", "participant:0xbettor_0xq"}, source.Calls())
}

func TestService_EmptyResults(t *testing.T) {
	t.Run("empty-bet-id", func(t *testing.T) {
		source := testutil.NewMockSource()
		svc := newTestService(t, source, nil)

		result := svc.PolystratBet(context.Background(), "")
		assert.True(t, result.IsEmpty())
		assert.Empty(t, source.Calls())
	})

	t.Run("bet-not-found", func(t *testing.T) {
		svc := newTestService(t, testutil.NewMockSource(), nil)

		assert.True(t, svc.PolymarketBet(context.Background(), "0xmissing").IsEmpty())
		assert.True(t, svc.PolystratBet(context.Background(), "0xmissing").IsEmpty())
	})

	t.Run("participant-not-found", func(t *testing.T) {
		source := testutil.NewMockSource()
		source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
		svc := newTestService(t, source, nil)

		result := svc.PolystratBet(context.Background(), "0xbet")
		assert.True(t, result.IsEmpty())
	})

	t.Run("no-participant-key-skips-lookup", func(t *testing.T) {
		source := testutil.NewMockSource()
		bet := testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
		bet.Bettor = nil
		source.Bets["0xbet"] = bet
		svc := newTestService(t, source, nil)

		result := svc.PolystratBet(context.Background(), "0xbet")
		assert.True(t, result.IsEmpty())
		assert.Equal(t, []string{"bet:0xbet"}, source.Calls())
	})
}

func TestService_Failures(t *testing.T) {
	t.Run("bet-upstream-failure", func(t *testing.T) {
		source := testutil.NewMockSource()
		source.BetErr = &types.UpstreamError{Operation: "getBet", StatusCode: http.StatusBadGateway}
		svc := newTestService(t, source, nil)

		result := svc.PolymarketBet(context.Background(), "0xbet")
		require.True(t, result.IsFailure())
		assert.True(t, types.IsUpstream(result.Err))
	})

	t.Run("participant-upstream-failure", func(t *testing.T) {
		source := testutil.NewMockSource()
		source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
		source.ParticipantErr = errors.New("connection reset")
		svc := newTestService(t, source, nil)

		result := svc.PolystratBet(context.Background(), "0xbet")
		require.True(t, result.IsFailure())
		assert.Contains(t, result.Err.Error(), "connection reset")
	})

	t.Run("malformed-amount", func(t *testing.T) {
		source := testutil.NewMockSource()
		bet := testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
		bet.Amount = "NaN"
		source.Bets["0xbet"] = bet
		svc := newTestService(t, source, nil)

		result := svc.PolymarketBet(context.Background(), "0xbet")
		require.True(t, result.IsFailure())
		assert.True(t, types.IsDataIntegrity(result.Err))
	})

	t.Run("unknown-model", func(t *testing.T) {
		svc := newTestService(t, testutil.NewMockSource(), nil)

		result := svc.Get(context.Background(), Model("kalshi"), "0xbet")
		assert.True(t, result.IsFailure())
	})
}

func TestService_CachesSuccess(t *testing.T) {
	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer c.Close()

	source := testutil.NewMockSource()
	source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
	svc := newTestService(t, source, c)

	first := svc.Get(context.Background(), ModelPolymarket, "0xbet")
	require.True(t, first.IsSuccess())
	c.Wait()

	second := svc.Get(context.Background(), ModelPolymarket, "0xbet")
	require.True(t, second.IsSuccess())
	assert.Equal(t, first.Value, second.Value)
	assert.Len(t, source.Calls(), 1)

	// Models are cached independently.
	source.Participants["0xbettor_0xq"] = testutil.CreateTestParticipant("0xbettor", "0xq", "0")
	third := svc.Get(context.Background(), ModelPolystrat, "0xbet")
	require.True(t, third.IsSuccess())
	assert.Equal(t, "0.00", third.Value.Multiplier)
}

func TestService_DoesNotCacheEmpty(t *testing.T) {
	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)
	defer c.Close()

	source := testutil.NewMockSource()
	svc := newTestService(t, source, c)

	assert.True(t, svc.PolymarketBet(context.Background(), "0xbet").IsEmpty())
	c.Wait()

	source.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
	assert.True(t, svc.PolymarketBet(context.Background(), "0xbet").IsSuccess())
}

func TestService_AgainstMockSubgraph(t *testing.T) {
	mock := testutil.NewMockSubgraph()
	defer mock.Close()

	mock.Bets["0xbet"] = testutil.CreateTestBet("0xbet", "0xbettor", "0xq")
	mock.Participants["0xbettor_0xq"] = testutil.CreateTestParticipant("0xbettor", "0xq", "3750000")

	client := subgraph.NewClient(graphql.NewClient(&graphql.Config{
		Endpoint: mock.URL,
		Logger:   zap.NewNop(),
	}))
	svc := newTestService(t, client, nil)

	result := svc.PolystratBet(context.Background(), "0xbet")
	require.True(t, result.IsSuccess(), "err: %v", result.Err)
	assert.Equal(t, "$3.75", result.Value.AmountWonFormatted)
	assert.Equal(t, "1.50", result.Value.Multiplier)
	assert.Equal(t, 2, mock.RequestCount())

	mock.SetFailStatus(http.StatusServiceUnavailable)
	failed := svc.PolystratBet(context.Background(), "0xother")
	require.True(t, failed.IsFailure())
	assert.True(t, types.IsUpstream(failed.Err))
}
