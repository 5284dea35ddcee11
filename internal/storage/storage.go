package storage

import (
	"context"

	"github.com/valory-xyz/olas-predict/pkg/types"
)

// Storage persists live agent samples and achievement warm runs.
type Storage interface {
	// StoreLiveAgentsSample stores one live agents refresh result.
	StoreLiveAgentsSample(ctx context.Context, sample *types.LiveAgentsSample) error

	// StoreWarmRun stores one achievement prerender run.
	StoreWarmRun(ctx context.Context, run *types.WarmRun) error

	// Close closes the storage connection.
	Close() error
}
