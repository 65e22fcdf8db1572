package db

import (
	"context"
	"fmt"
	"time"

	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WithRetry runs fn up to attempts times, sleeping attempt² × baseDelay
// between failures. It gives up early when ctx is cancelled.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if log != nil {
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", lastErr)
		}

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * baseDelay):
		}
	}

	return fmt.Errorf("%s: %w", name, lastErr)
}

// Connect opens the pool with retries.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := WithRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}
