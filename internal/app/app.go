// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package app wires configuration, storage, authentication and HTTP handlers
// behind a one-time bootstrap.
package app

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkpost/inkpost/internal/auth"
	authpg "github.com/inkpost/inkpost/internal/auth/postgres"
	blogpg "github.com/inkpost/inkpost/internal/blog/postgres"
	"github.com/inkpost/inkpost/internal/bootstrap"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/store"
	"github.com/inkpost/inkpost/internal/web"
)

// Opener connects to the database.
type Opener func(ctx context.Context, opts store.Options) (store.Pool, error)

// OpenPostgres is the production Opener.
func OpenPostgres(ctx context.Context, opts store.Options) (store.Pool, error) {
	pool, err := store.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Runtime is everything bootstrap produces.
type Runtime struct {
	Pool    store.Pool
	Auth    *auth.Service
	Handler http.Handler
}

// App owns the session registry and the bootstrap of everything that needs
// the database.
type App struct {
	cfg      config.Config
	logger   *slog.Logger
	open     Opener
	hasher   auth.PasswordHasher
	sessions *auth.MemoryRegistry

	boot    *bootstrap.Singleton[*Runtime]
	started atomic.Bool
}

// Option configures an App.
type Option func(*App)

// WithOpener replaces the database opener.
func WithOpener(open Opener) Option {
	return func(a *App) {
		if open != nil {
			a.open = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHasher replaces the password hasher.
func WithHasher(h auth.PasswordHasher) Option {
	return func(a *App) {
		if h != nil {
			a.hasher = h
		}
	}
}

// WithSessions supplies the session registry.
func WithSessions(r *auth.MemoryRegistry) Option {
	return func(a *App) {
		if r != nil {
			a.sessions = r
		}
	}
}

// New creates an App. Nothing touches the database until Start, EnsureReady
// or the first request.
func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
		open:   OpenPostgres,
		hasher: auth.NewPBKDF2Hasher(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sessions == nil {
		a.sessions = auth.NewMemoryRegistry(auth.WithTTL(cfg.Session.TTL))
	}

	a.boot = bootstrap.New(bootstrap.Config[*Runtime]{
		Name:    "database",
		Setup:   a.setup,
		Timeout: cfg.Bootstrap.Timeout,
		Discard: closeRuntime,
		Logger:  a.logger,
	})
	return a
}

// Sessions returns the registry shared by every request.
func (a *App) Sessions() *auth.MemoryRegistry {
	return a.sessions
}

// Start begins bootstrap in the background.
func (a *App) Start() {
	a.started.Store(true)
	a.boot.Start()
}

// EnsureReady waits for bootstrap. The outcome is the same for every caller.
func (a *App) EnsureReady(ctx context.Context) (*Runtime, error) {
	a.started.Store(true)
	return a.boot.EnsureReady(ctx)
}

// Ready reports whether bootstrap succeeded.
func (a *App) Ready() bool {
	return a.boot.Ready()
}

// Handler serves /healthz directly and everything else through the request
// entry adapter, so the first request triggers bootstrap when nothing else has.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		//nolint:errcheck // client may disconnect
		w.Write([]byte("ok\n"))
	})
	mux.Handle("/", web.Entry(func(ctx context.Context) (http.Handler, error) {
		rt, err := a.EnsureReady(ctx)
		if err != nil {
			return nil, err
		}
		return rt.Handler, nil
	}, a.logger))
	return mux
}

// Close releases the database pool once bootstrap has finished, waiting for
// an in-flight bootstrap until ctx ends.
func (a *App) Close(ctx context.Context) {
	if !a.started.Load() {
		return
	}
	select {
	case <-a.boot.Done():
	case <-ctx.Done():
		return
	}
	if rt, err := a.boot.EnsureReady(ctx); err == nil {
		closeRuntime(rt)
	}
}

func closeRuntime(rt *Runtime) {
	if rt != nil && rt.Pool != nil {
		rt.Pool.Close()
	}
}

// RegisterMetrics registers every application metric with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	auth.RegisterMetrics(reg)
	bootstrap.RegisterMetrics(reg)
	web.RegisterMetrics(reg)
}

func (a *App) setup(ctx context.Context) (*Runtime, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}

	pool, err := a.open(ctx, store.Options{
		URL:             a.cfg.DatabaseURL(),
		MaxConns:        a.cfg.Database.MaxConns,
		ConnectAttempts: a.cfg.Database.ConnectAttempts,
		ConnectBackoff:  a.cfg.Database.ConnectBackoff,
	})
	if err != nil {
		return nil, err
	}

	rt, err := a.build(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return rt, nil
}

func (a *App) build(ctx context.Context, pool store.Pool) (*Runtime, error) {
	if err := store.ApplySchema(ctx, pool); err != nil {
		return nil, err
	}

	svc, err := auth.NewService(
		authpg.NewCredentialRepository(pool),
		a.sessions,
		a.hasher,
		auth.WithLogger(a.logger),
		auth.WithHashConcurrency(a.cfg.Auth.HashConcurrency),
		auth.WithThrottle(auth.NewFailureThrottle(a.cfg.Auth.LockoutThreshold, a.cfg.Auth.LockoutDuration)),
	)
	if err != nil {
		return nil, err
	}

	if _, err := svc.EnsureAdmin(ctx, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
		return nil, err
	}

	router, err := web.NewRouter(web.Deps{
		Auth:         svc,
		Stats:        blogpg.NewStatsRepository(pool),
		Logger:       a.logger,
		CookieSecure: a.cfg.Session.CookieSecure,
	})
	if err != nil {
		return nil, err
	}

	return &Runtime{Pool: pool, Auth: svc, Handler: router}, nil
}
