package app

import (
	"context"
	"sync"

	"github.com/valory-xyz/olas-predict/internal/liveagents"
	"github.com/valory-xyz/olas-predict/internal/storage"
	"github.com/valory-xyz/olas-predict/pkg/cache"
	"github.com/valory-xyz/olas-predict/pkg/config"
	"github.com/valory-xyz/olas-predict/pkg/healthprobe"
	"github.com/valory-xyz/olas-predict/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	cache         cache.Cache
	liveAgents    *liveagents.Service
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
