package app

import (
	"context"
	"fmt"

	"github.com/valory-xyz/olas-predict/internal/achievements"
	"github.com/valory-xyz/olas-predict/internal/bets"
	"github.com/valory-xyz/olas-predict/internal/liveagents"
	"github.com/valory-xyz/olas-predict/internal/storage"
	"github.com/valory-xyz/olas-predict/internal/subgraph"
	"github.com/valory-xyz/olas-predict/pkg/cache"
	"github.com/valory-xyz/olas-predict/pkg/config"
	"github.com/valory-xyz/olas-predict/pkg/graphql"
	"github.com/valory-xyz/olas-predict/pkg/healthprobe"
	"github.com/valory-xyz/olas-predict/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	appCache, err := NewCache(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	appStorage, err := NewStorage(cfg, logger)
	if err != nil {
		appCache.Close()
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	// Closes everything created so far on a later setup failure.
	fail := func(step string, err error) (*App, error) {
		_ = appStorage.Close()
		appCache.Close()
		cancel()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	betService, err := NewBetService(cfg, logger, appCache)
	if err != nil {
		return fail("setup bet service", err)
	}

	liveAgents, err := NewLiveAgentsService(cfg, logger, appStorage)
	if err != nil {
		return fail("setup live agents service", err)
	}

	resolver, err := NewResolver(cfg, logger, appCache)
	if err != nil {
		return fail("setup achievements resolver", err)
	}

	warmer, err := NewWarmer(cfg, logger, resolver, appStorage)
	if err != nil {
		return fail("setup achievements warmer", err)
	}

	healthChecker.AddCheck("live-agents", liveAgents.Check)

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Bets:          betService,
		LiveAgents:    liveAgents,
		OGImages:      resolver,
		Warmer:        warmer,
		CronSecret:    cfg.CronSecret,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		cache:         appCache,
		liveAgents:    liveAgents,
		storage:       appStorage,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

// NewCache creates the shared request cache.
func NewCache(cfg *config.Config, logger *zap.Logger) (*cache.RistrettoCache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: cfg.CacheNumCounters,
		MaxCost:     cfg.CacheMaxCost,
		BufferItems: 64,
		Logger:      logger,
	})
}

// NewStorage creates the sample and warm run sink selected by STORAGE_MODE.
func NewStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

// NewBetService creates the bet service backed by the predict subgraph.
// c may be nil to disable result caching.
func NewBetService(cfg *config.Config, logger *zap.Logger, c cache.Cache) (*bets.Service, error) {
	client := graphql.NewClient(&graphql.Config{
		Endpoint: cfg.PredictSubgraphURL,
		Timeout:  cfg.GraphQLTimeout,
		Logger:   logger,
	})

	return bets.New(&bets.Config{
		Source:      subgraph.NewClient(client),
		Cache:       c,
		CacheTTL:    cfg.BetCacheTTL,
		ExplorerURL: cfg.PolygonScanURL,
		Logger:      logger,
	})
}

// NewLiveAgentsService creates the live agents service backed by the registry subgraph.
// recorder may be nil.
func NewLiveAgentsService(cfg *config.Config, logger *zap.Logger, recorder liveagents.Recorder) (*liveagents.Service, error) {
	client := graphql.NewClient(&graphql.Config{
		Endpoint: cfg.RegistrySubgraphURL,
		Timeout:  cfg.GraphQLTimeout,
		Logger:   logger,
	})

	return liveagents.New(&liveagents.Config{
		Source:          subgraph.NewClient(client),
		Recorder:        recorder,
		AgentIDs:        cfg.PredictAgentIDs,
		RefreshInterval: cfg.LiveAgentsRefreshInterval,
		Logger:          logger,
	})
}

// NewResolver creates the achievements lookup resolver.
// c may be nil to disable og-image caching.
func NewResolver(cfg *config.Config, logger *zap.Logger, c cache.Cache) (*achievements.Resolver, error) {
	return achievements.NewResolver(&achievements.ResolverConfig{
		Blobs:        achievements.NewBlobClient(cfg.BlobAPIURL, cfg.BlobReadWriteToken, logger),
		Cache:        c,
		CacheTTL:     cfg.BetCacheTTL,
		Prefix:       cfg.AchievementsLookupPrefix,
		DefaultImage: cfg.DefaultOGImage,
		Logger:       logger,
	})
}

// NewWarmer creates the achievement page warmer. recorder may be nil.
func NewWarmer(cfg *config.Config, logger *zap.Logger, lookups achievements.LookupLoader, recorder achievements.RunRecorder) (*achievements.Warmer, error) {
	return achievements.NewWarmer(&achievements.WarmerConfig{
		Lookups:     lookups,
		Recorder:    recorder,
		Domain:      cfg.OlasPredictDomain,
		Lookback:    cfg.WarmLookback,
		Concurrency: cfg.WarmConcurrency,
		Logger:      logger,
	})
}
