// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package store owns the PostgreSQL connection pool and the schema.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Pool is the subset of *pgxpool.Pool used by the application.
// pgxmock.PgxPoolIface satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Options configures Open.
type Options struct {
	URL      string
	MaxConns int32
	MinConns int32

	// ConnectAttempts is the number of pings tried before giving up.
	ConnectAttempts uint64
	// ConnectBackoff is the first delay between pings; it doubles up to 2s.
	ConnectBackoff time.Duration
}

const maxConnectBackoff = 2 * time.Second

// Open builds a pool and waits until a ping succeeds or the attempts run out.
func Open(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		// The parse error can echo the URL; keep it out of the message.
		return nil, oops.Code("DB_CONFIG_INVALID").Errorf("database URL could not be parsed")
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		pcfg.MinConns = opts.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := pingWithRetry(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func pingWithRetry(ctx context.Context, pool interface{ Ping(context.Context) error }, opts Options) error {
	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	base := opts.ConnectBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	backoff := retry.NewExponential(base)
	backoff = retry.WithCappedDuration(maxConnectBackoff, backoff)
	backoff = retry.WithMaxRetries(attempts-1, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping").
			With("attempts", attempts).
			Wrap(err)
	}
	return nil
}
