// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the session store.

Sessions are small JSON values read once per authenticated request and
written once per login, each with its own TTL. The client is tuned for that:
short per-command deadlines that also honour the request context, and a pool
sized for many tiny concurrent lookups.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookdesk/internal/platform/constants"
)

// ClientName identifies gateway connections in CLIENT LIST.
const ClientName = "bookdesk-sessions"

// SessionOptions parses redisURL and applies the session-store tuning.
//
// Settings carried in the URL (database, credentials, TLS) are kept; pool
// size and deadlines are always overridden.
func SessionOptions(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = ClientName
	options.PoolSize = 4 * runtime.GOMAXPROCS(0)
	options.MinIdleConns = 1

	options.DialTimeout = 2 * constants.SessionLookupTimeout
	options.ReadTimeout = constants.SessionLookupTimeout
	options.WriteTimeout = constants.SessionLookupTimeout
	options.PoolTimeout = constants.SessionLookupTimeout
	options.ContextTimeoutEnabled = true

	// A missed lookup is reported as an error; the caller logs in again.
	options.MaxRetries = 1

	return options, nil
}

// NewClient connects to the session store and checks it answers.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := SessionOptions(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("session_store_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// Ping is the readiness check for the session store.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, 2*constants.SessionLookupTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
