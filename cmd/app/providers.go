package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/brew-advisor/internal/domain/explain"
	"github.com/yanqian/brew-advisor/internal/domain/feedback"
	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/internal/infra/config"
	"github.com/yanqian/brew-advisor/internal/infra/feedbackstore"
	"github.com/yanqian/brew-advisor/internal/infra/predictor"
	"github.com/yanqian/brew-advisor/internal/infra/snapshot"
	"github.com/yanqian/brew-advisor/internal/infra/weather/openmeteo"
)

func provideRecommendationConfig(cfg *config.Config) (recommendation.Config, error) {
	loc, err := cfg.Weather.ClockLocation()
	if err != nil {
		return recommendation.Config{}, err
	}
	fallback := recommendation.DefaultFallback
	fallback.Location = cfg.Weather.Location
	fallback.Country = cfg.Weather.Country
	return recommendation.Config{Timezone: loc, Fallback: fallback}, nil
}

func providePredictor(cfg *config.Config, logger *slog.Logger) (*predictor.Invoker, error) {
	return predictor.NewInvoker(predictor.Config{
		Command:   cfg.Predictor.Command,
		Timeout:   cfg.Predictor.Timeout,
		WaitDelay: cfg.Predictor.WaitDelay,
	}, logger)
}

func provideWeatherClient(cfg *config.Config, logger *slog.Logger) *openmeteo.Client {
	return openmeteo.NewClient(openmeteo.Config{
		BaseURL:          cfg.Weather.BaseURL,
		Timeout:          cfg.Weather.Timeout,
		Location:         cfg.Weather.Location,
		Country:          cfg.Weather.Country,
		FailureThreshold: cfg.Weather.FailureThreshold,
		OpenTimeout:      cfg.Weather.OpenTimeout,
	}, logger)
}

func provideExplainer() *explain.Engine {
	return explain.New(nil)
}

func provideSnapshotWriter(cfg *config.Config, logger *slog.Logger) feedback.SnapshotWriter {
	if !cfg.Snapshot.Enabled {
		logger.Info("snapshot storage not configured, keeping exports in memory")
		return snapshot.NewMemoryStore()
	}
	store, err := snapshot.NewObjectStore(snapshot.Config{
		Endpoint:  cfg.Snapshot.Endpoint,
		AccessKey: cfg.Snapshot.AccessKey,
		SecretKey: cfg.Snapshot.SecretKey,
		Bucket:    cfg.Snapshot.Bucket,
		Region:    cfg.Snapshot.Region,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize object storage, keeping exports in memory", "error", err)
		return snapshot.NewMemoryStore()
	}
	logger.Info("snapshot object storage enabled", "endpoint", cfg.Snapshot.Endpoint, "bucket", cfg.Snapshot.Bucket)
	return store
}

// provideFeedbackStore opens the configured backend. A backend that cannot be
// opened or reached fails startup.
func provideFeedbackStore(cfg *config.Config, logger *slog.Logger) (feedback.Store, func(), error) {
	noop := func() {}
	switch cfg.Feedback.Backend {
	case config.BackendMemory:
		logger.Info("feedback memory store enabled")
		return feedbackstore.NewMemoryStore(), noop, nil
	case config.BackendBadger:
		return provideBadgerStore(cfg, logger)
	case config.BackendValkey:
		return provideValkeyStore(cfg, logger)
	case config.BackendPostgres:
		return providePostgresStore(cfg, logger)
	default:
		logger.Info("feedback file store enabled", "path", cfg.Feedback.Path)
		return feedbackstore.NewFileStore(cfg.Feedback.Path, logger), noop, nil
	}
}

func provideBadgerStore(cfg *config.Config, logger *slog.Logger) (feedback.Store, func(), error) {
	db, err := feedbackstore.OpenBadger(cfg.Feedback.Badger.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open badger feedback store: %w", err)
	}
	store, err := feedbackstore.NewBadgerStore(db, logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init badger feedback store: %w", err)
	}
	logger.Info("feedback badger store enabled", "dir", cfg.Feedback.Badger.Dir)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("release badger sequence failed", "error", err)
		}
		if err := db.Close(); err != nil {
			logger.Warn("close badger failed", "error", err)
		}
	}
	return store, cleanup, nil
}

func provideValkeyStore(cfg *config.Config, logger *slog.Logger) (feedback.Store, func(), error) {
	opt, err := buildValkeyOptions(cfg.Feedback.Valkey.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("parse valkey address: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, nil, fmt.Errorf("connect valkey feedback store: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping valkey feedback store: %w", err)
	}
	logger.Info("feedback valkey store enabled", "addr", cfg.Feedback.Valkey.Addr)
	return feedbackstore.NewValkeyStore(client, cfg.Feedback.Valkey.Prefix, logger), client.Close, nil
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger) (feedback.Store, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Feedback.Postgres.DSN))
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.Feedback.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Feedback.Postgres.MaxConns
	}
	if cfg.Feedback.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Feedback.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres feedback store: %w", err)
	}
	store := feedbackstore.NewPostgresStore(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("feedback postgres store enabled")
	return store, pool.Close, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
