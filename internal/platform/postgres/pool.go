// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pool behind the action log.
//
// The gateway's only relational data is its own audit trail: one detached
// insert per mutation and an occasional paged listing. The pool is small and
// every statement is cut off at the audit write deadline.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationName tags gateway sessions in pg_stat_activity.
const ApplicationName = "bookdesk-audit"

const (
	maxConns        = 4
	maxConnIdleTime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// AuditPoolConfig parses dsn and applies the audit tuning.
// statementTimeout becomes the server-side statement_timeout of every connection.
func AuditPoolConfig(dsn string, statementTimeout time.Duration) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	params := poolConfig.ConnConfig.RuntimeParams
	params["application_name"] = ApplicationName
	params["statement_timeout"] = strconv.FormatInt(statementTimeout.Milliseconds(), 10)

	return poolConfig, nil
}

// NewPool connects the audit pool and checks the database answers.
func NewPool(ctx context.Context, dsn string, statementTimeout time.Duration, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := AuditPoolConfig(dsn, statementTimeout)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("audit_pool_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Duration("statement_timeout", statementTimeout),
	)
	return pool, nil
}

// Ping is the readiness check for the audit database.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
