package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/valory-xyz/olas-predict/pkg/types"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL.
//
// Expected tables:
//
//	live_agents_samples(id, status, average, window_start, window_end, error, recorded_at)
//	achievement_warm_runs(id, agent, type, success, failed, started_at, duration_ms)
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreLiveAgentsSample inserts a live agents sample.
// A failed sample is stored with a NULL average.
func (p *PostgresStorage) StoreLiveAgentsSample(ctx context.Context, sample *types.LiveAgentsSample) error {
	query := `
		INSERT INTO live_agents_samples (
			id, status, average, window_start, window_end, error, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var average sql.NullInt64
	if sample.Status == types.StatusSuccess {
		average = sql.NullInt64{Int64: int64(sample.Average), Valid: true}
	}

	_, err := p.db.ExecContext(ctx, query,
		sample.ID,
		string(sample.Status),
		average,
		sample.WindowStart,
		sample.WindowEnd,
		sample.Error,
		sample.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert live agents sample: %w", err)
	}

	p.logger.Debug("live-agents-sample-stored",
		zap.String("sample-id", sample.ID),
		zap.String("status", string(sample.Status)))

	return nil
}

// StoreWarmRun inserts a warm run summary.
func (p *PostgresStorage) StoreWarmRun(ctx context.Context, run *types.WarmRun) error {
	query := `
		INSERT INTO achievement_warm_runs (
			id, agent, type, success, failed, started_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.ExecContext(ctx, query,
		run.ID,
		run.Agent,
		run.Type,
		run.Success,
		run.Failed,
		run.StartedAt,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert warm run: %w", err)
	}

	p.logger.Debug("warm-run-stored",
		zap.String("run-id", run.ID),
		zap.Int("success", run.Success),
		zap.Int("failed", run.Failed))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
