package storage

import (
	"context"

	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by logging each record.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreLiveAgentsSample logs a live agents sample.
func (c *ConsoleStorage) StoreLiveAgentsSample(_ context.Context, sample *types.LiveAgentsSample) error {
	fields := []zap.Field{
		zap.String("sample-id", sample.ID),
		zap.String("status", string(sample.Status)),
		zap.Time("window-start", sample.WindowStart),
		zap.Time("window-end", sample.WindowEnd),
	}
	if sample.Status == types.StatusSuccess {
		fields = append(fields, zap.Int("average", sample.Average))
	}
	if sample.Error != "" {
		fields = append(fields, zap.String("error", sample.Error))
	}

	c.logger.Info("live-agents-sample", fields...)
	return nil
}

// StoreWarmRun logs a warm run summary.
func (c *ConsoleStorage) StoreWarmRun(_ context.Context, run *types.WarmRun) error {
	c.logger.Info("achievement-warm-run",
		zap.String("run-id", run.ID),
		zap.String("agent", run.Agent),
		zap.String("type", run.Type),
		zap.Int("success", run.Success),
		zap.Int("failed", run.Failed),
		zap.Duration("duration", run.Duration))
	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
