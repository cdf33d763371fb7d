package db

import (
	"context"

	"earnhub/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens the process-wide pool. Opened once at startup, reused
// across requests, closed only on shutdown.
func Connect(dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return pool
}
