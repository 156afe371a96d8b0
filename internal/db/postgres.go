// Package db opens the shared Postgres pool and the gorm handle layered on it.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gokatarajesh/trivia-api/internal/config"
)

// Database bundles the three views of the same connection pool.
type Database struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
	Gorm *gorm.DB
}

// Open connects to Postgres, verifies the connection and wraps the pool for
// database/sql consumers (goose) and gorm.
func Open(ctx context.Context, cfg config.Postgres, logger zerolog.Logger) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewGormLogger(logger.With().Str("component", "gorm").Logger()),
	})
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("connected to postgres")

	return &Database{Pool: pool, SQL: sqlDB, Gorm: gormDB}, nil
}

// Ping checks the pool is reachable.
func (d *Database) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close releases the database/sql wrapper and then the pool.
func (d *Database) Close() {
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
	d.Pool.Close()
}
