package app

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"logihub/internal/logx"
	"logihub/internal/repository"
)

const (
	dbConnectAttempts = 5
	dbConnectBackoff  = 2 * time.Second
)

// connectDbWithRetry keeps trying the database while it warms up, which
// matters when the service and Postgres start together.
func connectDbWithRetry(ctx context.Context, dsn string, log logx.Logger) (*pgxpool.Pool, error) {
	var lastErr error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		pool, err := repository.NewPool(ctx, dsn)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		log.Warn("db connect failed",
			logx.Int("attempt", attempt),
			logx.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dbConnectBackoff):
		}
	}
	return nil, lastErr
}
