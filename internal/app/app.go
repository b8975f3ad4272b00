// Package app builds the collaborators shared by the API and the bot from
// the loaded configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"juros-justos/internal/analytics"
	"juros-justos/internal/config"
	"juros-justos/internal/storage"
	"juros-justos/internal/storage/postgres"
	"juros-justos/internal/storage/supabase"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewLogger installs a text slog handler on stdout as the default logger.
func NewLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// NewTracker posts events to ANALYTICS_URL when set and logs them otherwise.
func NewTracker(cfg config.Config, logger *slog.Logger) analytics.Tracker {
	if cfg.AnalyticsURL != "" {
		return analytics.NewHTTPCollector(cfg.AnalyticsURL, logger.With("component", "analytics"))
	}
	return analytics.NewLogTracker(logger.With("component", "analytics"))
}

// OpenLeadStorage connects the configured lead backend. The returned close
// function must be called on shutdown.
func OpenLeadStorage(ctx context.Context, cfg config.Config) (storage.LeadStorage, func(), error) {
	switch cfg.LeadsBackend {
	case config.BackendSupabase:
		client, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey, nil)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Lead storage: supabase", "url", cfg.SupabaseURL)
		return client, func() {}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		slog.Info("Lead storage: postgres")
		return postgres.NewStorage(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown leads backend %q", cfg.LeadsBackend)
}
