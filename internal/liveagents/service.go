package liveagents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// Source fetches daily performance rows from the registry subgraph.
type Source interface {
	DailyAgentPerformances(ctx context.Context, agentIDs []int, gt int64, lt int64) ([]types.DailyAgentPerformance, error)
}

// Recorder persists live agent samples.
type Recorder interface {
	StoreLiveAgentsSample(ctx context.Context, sample *types.LiveAgentsSample) error
}

// Service computes the 7-day average of active predict agents and keeps the
// last successful value warm.
type Service struct {
	source          Source
	recorder        Recorder
	agentIDs        []int
	refreshInterval time.Duration
	logger          *zap.Logger
	now             func() time.Time

	mu     sync.RWMutex
	latest *types.Result[int]
}

// Config holds live agents service configuration.
type Config struct {
	Source          Source
	Recorder        Recorder // optional
	AgentIDs        []int
	RefreshInterval time.Duration
	Logger          *zap.Logger
	Now             func() time.Time // optional, defaults to time.Now
}

// New creates a new live agents service.
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
	if len(cfg.AgentIDs) == 0 {
		return nil, fmt.Errorf("agent ids cannot be empty")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		source:          cfg.Source,
		recorder:        cfg.Recorder,
		agentIDs:        cfg.AgentIDs,
		refreshInterval: cfg.RefreshInterval,
		logger:          cfg.Logger,
		now:             now,
	}, nil
}

// Fetch queries the subgraph and computes the average.
// Zero rows is Success(0); a failed query or malformed row is Failure.
func (s *Service) Fetch(ctx context.Context) types.Result[int] {
	start := time.Now()
	defer func() {
		FetchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	now := s.now()
	gt, lt := QueryRange(now)

	result := s.compute(ctx, gt, lt, now)
	FetchesTotal.WithLabelValues(string(result.Status)).Inc()

	if result.IsSuccess() {
		AverageGauge.Set(float64(result.Value))
		s.mu.Lock()
		s.latest = &result
		s.mu.Unlock()
	} else {
		s.logger.Error("live-agents-fetch-failed", zap.Error(result.Err))
	}

	s.record(ctx, result, gt, lt)

	return result
}

func (s *Service) compute(ctx context.Context, gt int64, lt int64, now time.Time) types.Result[int] {
	rows, err := s.source.DailyAgentPerformances(ctx, s.agentIDs, gt, lt)
	if err != nil {
		return types.Failure[int](fmt.Errorf("fetch daily agent performances: %w", err))
	}

	activity, err := ParseRows(rows)
	if err != nil {
		return types.Failure[int](fmt.Errorf("parse daily agent performances: %w", err))
	}

	average := Average(activity, now)

	s.logger.Debug("live-agents-computed",
		zap.Int("rows", len(rows)),
		zap.Int("average", average))

	return types.Success(average)
}

// Get returns the last successful average, fetching on demand if none exists yet.
func (s *Service) Get(ctx context.Context) types.Result[int] {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		return *latest
	}

	return s.Fetch(ctx)
}

// Check reports an error until the first successful fetch.
func (s *Service) Check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return errors.New("no successful fetch yet")
	}
	return nil
}

// Run refreshes the average on every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("live-agents-service-starting",
		zap.Duration("refresh-interval", s.refreshInterval),
		zap.Ints("agent-ids", s.agentIDs))

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	s.Fetch(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("live-agents-service-stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Fetch(ctx)
		}
	}
}

func (s *Service) record(ctx context.Context, result types.Result[int], gt int64, lt int64) {
	if s.recorder == nil {
		return
	}

	sample := &types.LiveAgentsSample{
		ID:          uuid.New().String(),
		Status:      result.Status,
		Average:     result.Value,
		WindowStart: time.Unix(gt, 0).UTC().AddDate(0, 0, 1),
		WindowEnd:   time.Unix(lt, 0).UTC(),
		RecordedAt:  s.now().UTC(),
	}
	if result.Err != nil {
		sample.Error = result.Err.Error()
	}

	err := s.recorder.StoreLiveAgentsSample(ctx, sample)
	if err != nil {
		s.logger.Warn("live-agents-sample-store-failed", zap.Error(err))
	}
}
