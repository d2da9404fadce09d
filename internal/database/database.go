// Package database provides the process-scoped store handles: a pgx pool for
// PostgreSQL and a client for MongoDB. Both are created once at startup.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/care-connect/internal/config"
	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
)

const connectAttempts = 5

// NewPool creates and validates a pgxpool connection pool.
// It retries a few times to accommodate containers starting up.
func NewPool(ctx context.Context, log *slog.Logger, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		log.Warn("db connect attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("of", connectAttempts),
			sl.Err(err),
		)
		if attempt < connectAttempts {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return pool, nil
}

// schema holds one JSONB document table per collection.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	email      TEXT PRIMARY KEY,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS places (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS places_host_email_idx ON places ((doc->'host'->>'email'));
CREATE TABLE IF NOT EXISTS bookings (
	id         TEXT PRIMARY KEY,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS bookings_guest_email_idx ON bookings ((doc->'guest'->>'email'));
`

// EnsureSchema creates the document tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
