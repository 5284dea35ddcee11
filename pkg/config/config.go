package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultPredictAgentIDs are the registry agent IDs counted as predict agents.
//
//nolint:gochecknoglobals // static registry list
var DefaultPredictAgentIDs = []int{13, 14, 25, 9, 26, 29, 37, 36, 33, 44, 46, 45}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Subgraphs
	PredictSubgraphURL  string
	RegistrySubgraphURL string
	GraphQLTimeout      time.Duration

	// Live agents
	PredictAgentIDs           []int
	LiveAgentsRefreshInterval time.Duration

	// Cache
	BetCacheTTL      time.Duration
	CacheNumCounters int64
	CacheMaxCost     int64

	// Achievements
	BlobAPIURL               string
	BlobReadWriteToken       string
	AchievementsLookupPrefix string
	OlasPredictDomain        string
	DefaultOGImage           string
	PolygonScanURL           string
	CronSecret               string
	WarmLookback             time.Duration
	WarmConcurrency          int

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	agentIDs, err := getIntListOrDefault("PREDICT_AGENT_IDS", DefaultPredictAgentIDs)
	if err != nil {
		return nil, fmt.Errorf("parse PREDICT_AGENT_IDS: %w", err)
	}

	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Subgraphs have no defaults: queries fail as upstream errors when unset
		PredictSubgraphURL:  os.Getenv("PREDICT_SUBGRAPH_URL"),
		RegistrySubgraphURL: os.Getenv("REGISTRY_SUBGRAPH_URL"),
		GraphQLTimeout:      getDurationOrDefault("GRAPHQL_TIMEOUT", 30*time.Second),

		// Live agents defaults
		PredictAgentIDs:           agentIDs,
		LiveAgentsRefreshInterval: getDurationOrDefault("LIVE_AGENTS_REFRESH_INTERVAL", 1*time.Hour),

		// Cache defaults
		BetCacheTTL:      getDurationOrDefault("BET_CACHE_TTL", 5*time.Minute),
		CacheNumCounters: int64(getIntOrDefault("CACHE_NUM_COUNTERS", 100_000)),
		CacheMaxCost:     int64(getIntOrDefault("CACHE_MAX_COST", 10_000)),

		// Achievements defaults
		BlobAPIURL:               getEnvOrDefault("BLOB_API_URL", "https://blob.vercel-storage.com"),
		BlobReadWriteToken:       os.Getenv("BLOB_READ_WRITE_TOKEN"),
		AchievementsLookupPrefix: getEnvOrDefault("ACHIEVEMENTS_LOOKUP_PREFIX", "achievements-lookup"),
		OlasPredictDomain:        getEnvOrDefault("OLAS_PREDICT_DOMAIN", "predict.olas.network"),
		DefaultOGImage:           getEnvOrDefault("DEFAULT_OG_IMAGE", "/images/background.png"),
		PolygonScanURL:           getEnvOrDefault("POLYGON_SCAN_URL", "https://polygonscan.com"),
		CronSecret:               os.Getenv("CRON_SECRET"),
		WarmLookback:             getDurationOrDefault("WARM_LOOKBACK", 1*time.Hour),
		WarmConcurrency:          getIntOrDefault("WARM_CONCURRENCY", 8),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "predict"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "predict123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "olas_predict"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if len(c.PredictAgentIDs) == 0 {
		return fmt.Errorf("PREDICT_AGENT_IDS cannot be empty")
	}

	if c.GraphQLTimeout <= 0 {
		return fmt.Errorf("GRAPHQL_TIMEOUT must be positive, got %v", c.GraphQLTimeout)
	}

	if c.LiveAgentsRefreshInterval <= 0 {
		return fmt.Errorf("LIVE_AGENTS_REFRESH_INTERVAL must be positive, got %v", c.LiveAgentsRefreshInterval)
	}

	if c.BetCacheTTL < 0 {
		return fmt.Errorf("BET_CACHE_TTL cannot be negative, got %v", c.BetCacheTTL)
	}

	if c.CacheNumCounters <= 0 || c.CacheMaxCost <= 0 {
		return fmt.Errorf("CACHE_NUM_COUNTERS and CACHE_MAX_COST must be positive")
	}

	if c.WarmConcurrency <= 0 {
		return fmt.Errorf("WARM_CONCURRENCY must be positive, got %d", c.WarmConcurrency)
	}

	if c.OlasPredictDomain == "" {
		return fmt.Errorf("OLAS_PREDICT_DOMAIN cannot be empty")
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getIntListOrDefault parses a comma-separated list of integers.
// A malformed list is an error.
func getIntListOrDefault(key string, defaultValue []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		out := make([]int, len(defaultValue))
		copy(out, defaultValue)
		return out, nil
	}

	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid agent id %q: %w", part, err)
		}
		out = append(out, id)
	}

	return out, nil
}
