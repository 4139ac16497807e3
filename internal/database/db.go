package database

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/throneroom/internal/config"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Connect it once at application startup.
var DB *pgxpool.Pool

// Connect creates the pool from cfg and pings the server.
func Connect(ctx context.Context, cfg config.Postgres) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}

	DB = pool
	logrus.WithFields(logrus.Fields{"host": cfg.Host, "database": cfg.Database}).Info("connected to database")
	return nil
}

//go:embed schema.sql
var schema string

// Migrate creates any missing tables. Statements are idempotent.
func Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the pool, if open.
func Close() {
	if DB != nil {
		DB.Close()
	}
}
