package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool against the given DSN and verifies it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	return pool, nil
}

// Migrate creates the service tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS customer_records (
			id               TEXT PRIMARY KEY,
			customer_name    TEXT NOT NULL,
			phone            TEXT NOT NULL DEFAULT '',
			line_user_id     TEXT NOT NULL,
			order_number     TEXT NOT NULL UNIQUE,
			delivery_date    TEXT NOT NULL,
			delivery_address TEXT NOT NULL DEFAULT '',
			notes            TEXT NOT NULL DEFAULT '',
			status           TEXT NOT NULL DEFAULT 'ready',
			last_modified    TIMESTAMPTZ NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS deliveries (
			id                TEXT PRIMARY KEY,
			order_id          TEXT NOT NULL UNIQUE,
			user_id           TEXT NOT NULL,
			customer_name     TEXT NOT NULL,
			delivery_date     TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'pending',
			response_time     TIMESTAMPTZ,
			new_delivery_date TEXT NOT NULL DEFAULT '',
			reschedule_reason TEXT NOT NULL DEFAULT '',
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run schema migration: %w", err)
	}
	return nil
}
