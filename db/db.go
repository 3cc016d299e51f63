package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the given URL, retrying while the
// database comes up. Render hosts often boot before their database does.
func Connect(ctx context.Context, logger *slog.Logger, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	var pool *pgxpool.Pool
	maxRetries := 10
	retryDelay := 10 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("Connected to the database")
				return pool, nil
			}
			pool.Close()
		}

		logger.Warn("Failed to connect to the database",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", maxRetries),
			slog.String("error", err.Error()))

		if i < maxRetries-1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts: %w", maxRetries, err)
}
