package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type poolConfig struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// Option tunes the connection pool.
type Option func(*poolConfig)

// WithMaxConns caps open connections; idle connections are kept at half of it.
func WithMaxConns(n int) Option {
	return func(c *poolConfig) {
		if n <= 0 {
			return
		}
		c.maxOpen = n
		c.maxIdle = max(1, n/2)
	}
}

// NewPostgres opens a sqlx.DB for the account and project tables and
// verifies the connection.
func NewPostgres(ctx context.Context, url string, opts ...Option) (*sqlx.DB, error) {
	pool := poolConfig{
		maxOpen:     10,
		maxIdle:     5,
		maxLifetime: 30 * time.Minute,
		maxIdleTime: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(&pool)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	db.SetMaxOpenConns(pool.maxOpen)
	db.SetMaxIdleConns(pool.maxIdle)
	db.SetConnMaxLifetime(pool.maxLifetime)
	db.SetConnMaxIdleTime(pool.maxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
