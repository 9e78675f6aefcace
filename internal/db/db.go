// Package db provides PostgreSQL persistence for user accounts, exclusion
// rows, and search history.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// maxPoolConns caps the shared pool; the API and the CLI are both light
	// writers and never need more.
	maxPoolConns = 8
	// pingTimeout bounds the connectivity check inside Connect.
	pingTimeout = 5 * time.Second
)

// DB is the handle every query in this package goes through. The zero value
// is not usable; get one from Connect.
type DB struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool for databaseURL and verifies it responds
// before handing it out.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolCfg.MaxConns = maxPoolConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close releases every pooled connection. Safe to call on a DB that never
// connected.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
