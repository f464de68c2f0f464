package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
	"go.uber.org/zap"
)

// NewPostgresPool opens the pool and retries the first ping, so the API can start
// while the database container is still booting.
func NewPostgresPool(ctx context.Context, cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second

	ping := func() error {
		if err := pool.Ping(ctx); err != nil {
			log.Warn("PostgreSQL not ready", zap.Error(err))
			return err
		}
		return nil
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}
