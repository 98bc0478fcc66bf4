package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ConnectOptions tunes the pool setup.
type ConnectOptions struct {
	MaxConns    int
	IdleTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// Connect builds a pgx pool and verifies it with a ping, retrying until the
// database is reachable or the retries run out.
func Connect(ctx context.Context, dsn string, opts ConnectOptions, log *zap.Logger) (*pgxpool.Pool, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 10
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = opts.IdleTimeout
	}

	var pool *pgxpool.Pool
	for i := 0; i < opts.MaxRetries; i++ {
		attempt := i + 1

		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err = pgxpool.NewWithConfig(attemptCtx, poolConfig)
		if err == nil {
			err = pool.Ping(attemptCtx)
			if err == nil {
				cancel()
				log.Info("connected to PostgreSQL", zap.Int("attempt", attempt))
				return pool, nil
			}
			pool.Close()
		}
		cancel()

		log.Warn("PostgreSQL connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", opts.MaxRetries),
			zap.Error(err))

		if i < opts.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", opts.MaxRetries, err)
}
