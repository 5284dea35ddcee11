package bets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valory-xyz/olas-predict/internal/payout"
	"github.com/valory-xyz/olas-predict/pkg/cache"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// Model names the upstream payout shape used to transform a bet.
type Model string

const (
	// ModelPolymarket computes winnings from shares and resolution payouts.
	ModelPolymarket Model = "polymarket"
	// ModelPolystrat reads winnings from the bettor's market participant record.
	ModelPolystrat Model = "polystrat"
)

// Source fetches raw records from the predict subgraph.
// Both methods return (nil, nil) when the record does not exist.
type Source interface {
	Bet(ctx context.Context, id string) (*types.Bet, error)
	MarketParticipant(ctx context.Context, id string) (*types.MarketParticipant, error)
}

// Service turns bet IDs into display-ready bets.
type Service struct {
	source      Source
	cache       cache.Cache
	cacheTTL    time.Duration
	explorerURL string
	logger      *zap.Logger
}

// Config holds bet service configuration.
type Config struct {
	Source      Source
	Cache       cache.Cache // optional
	CacheTTL    time.Duration
	ExplorerURL string
	Logger      *zap.Logger
}

// New creates a new bet service.
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("source cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &Service{
		source:      cfg.Source,
		cache:       cfg.Cache,
		cacheTTL:    cfg.CacheTTL,
		explorerURL: cfg.ExplorerURL,
		logger:      cfg.Logger,
	}, nil
}

// Get resolves a bet using the given model.
func (s *Service) Get(ctx context.Context, model Model, betID string) types.Result[*types.TransformedBet] {
	switch model {
	case ModelPolymarket:
		return s.PolymarketBet(ctx, betID)
	case ModelPolystrat:
		return s.PolystratBet(ctx, betID)
	default:
		return types.Failure[*types.TransformedBet](fmt.Errorf("unknown bet model %q", model))
	}
}

// PolymarketBet resolves a bet whose winnings come from its question's resolution payouts.
func (s *Service) PolymarketBet(ctx context.Context, betID string) types.Result[*types.TransformedBet] {
	return s.resolve(ctx, ModelPolymarket, betID, func(ctx context.Context, bet *types.Bet) (*payout.Settlement, error) {
		return payout.FromResolution(bet)
	})
}

// PolystratBet resolves a bet whose winnings come from the bettor's market participant record.
// The participant lookup is issued only after the bet is known, since its key is derived from it.
func (s *Service) PolystratBet(ctx context.Context, betID string) types.Result[*types.TransformedBet] {
	return s.resolve(ctx, ModelPolystrat, betID, func(ctx context.Context, bet *types.Bet) (*payout.Settlement, error) {
		participantID, ok := ParticipantID(bet)
		if !ok {
			s.logger.Debug("participant-key-unavailable", zap.String("bet-id", bet.ID))
			return nil, nil
		}

		participant, err := s.source.MarketParticipant(ctx, participantID)
		if err != nil {
			return nil, fmt.Errorf("fetch market participant: %w", err)
		}

		return payout.FromParticipant(bet, participant)
	})
}

type normalizer func(ctx context.Context, bet *types.Bet) (*payout.Settlement, error)

func (s *Service) resolve(ctx context.Context, model Model, betID string, normalize normalizer) types.Result[*types.TransformedBet] {
	if betID == "" {
		return types.Empty[*types.TransformedBet]()
	}

	start := time.Now()
	defer func() {
		ResolveDurationSeconds.WithLabelValues(string(model)).Observe(time.Since(start).Seconds())
	}()

	cacheKey := cache.Key("bet", string(model), betID)
	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if transformed, ok := cached.(*types.TransformedBet); ok {
				ResolvedTotal.WithLabelValues(string(model), string(types.StatusSuccess)).Inc()
				return types.Success(transformed)
			}
		}
	}

	result := s.fetch(ctx, normalize, betID)
	ResolvedTotal.WithLabelValues(string(model), string(result.Status)).Inc()

	switch result.Status {
	case types.StatusSuccess:
		if s.cache != nil {
			s.cache.Set(cacheKey, result.Value, s.cacheTTL)
		}
	case types.StatusFailure:
		level := s.logger.Error
		if errors.Is(result.Err, context.Canceled) {
			level = s.logger.Debug
		}
		level("bet-resolve-failed",
			zap.String("model", string(model)),
			zap.String("bet-id", betID),
			zap.Error(result.Err))
	case types.StatusEmpty:
		s.logger.Debug("bet-not-found",
			zap.String("model", string(model)),
			zap.String("bet-id", betID))
	}

	return result
}

func (s *Service) fetch(ctx context.Context, normalize normalizer, betID string) types.Result[*types.TransformedBet] {
	bet, err := s.source.Bet(ctx, betID)
	if err != nil {
		return types.Failure[*types.TransformedBet](fmt.Errorf("fetch bet: %w", err))
	}
	if bet == nil {
		return types.Empty[*types.TransformedBet]()
	}

	settlement, err := normalize(ctx, bet)
	if err != nil {
		return types.Failure[*types.TransformedBet](err)
	}

	transformed := payout.Transform(settlement)
	if transformed == nil {
		return types.Empty[*types.TransformedBet]()
	}

	transformed.TransactionURL = payout.TransactionURL(s.explorerURL, transformed.TransactionHash)

	return types.Success(transformed)
}

// ParticipantID derives the market participant composite key "{bettorId}_{questionId}".
// Returns ("", false) when either identifier is absent.
func ParticipantID(bet *types.Bet) (string, bool) {
	bettorID := bet.BettorID()
	questionID := bet.QuestionID()
	if bettorID == "" || questionID == "" {
		return "", false
	}
	return bettorID + "_" + questionID, true
}
