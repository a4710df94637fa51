// Package cmd provides shared wiring helpers for the command-line binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/salesbridge/automation/pkg/dedup"
	"github.com/salesbridge/automation/pkg/persistence"
	"github.com/salesbridge/automation/pkg/persistence/file"
	"github.com/salesbridge/automation/pkg/persistence/postgresql"
)

const defaultDedupTTL = 24 * time.Hour

// NewPersistence selects the persistence backend from the database URL:
// postgres:// connects to PostgreSQL, file:// (or a bare path) uses the
// JSON-file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		store, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL persistence: %w", err)
		}

		return store, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

// NewDedupGuard returns a Redis-backed idempotency guard when a Redis URL is
// configured, falling back to the process-local guard otherwise.
func NewDedupGuard(logger *slog.Logger, redisURL string) (dedup.Guard, error) {
	if redisURL == "" {
		logger.Info("Using in-memory idempotency guard")

		return dedup.NewMemoryGuard(defaultDedupTTL), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	logger.Info("Using Redis idempotency guard", "addr", opts.Addr)

	return dedup.NewRedisGuard(redis.NewClient(opts), defaultDedupTTL), nil
}
