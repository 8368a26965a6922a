// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/observability"
	"github.com/inkpost/inkpost/internal/store"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// AppFactory builds the application.
	// Default: app.New
	AppFactory func(cfg config.Config, logger *slog.Logger) ServeApp

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer with app.RegisterMetrics
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// ListenerFactory creates the HTTP listener.
	// Default: net.Listen
	ListenerFactory func(network, address string) (net.Listener, error)
}

// MigrateDeps contains injectable dependencies for the migrate command.
type MigrateDeps struct {
	// MigratorFactory creates a migrator for a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (Migrator, error)
}

// UserDeps contains injectable dependencies for the user command.
type UserDeps struct {
	// Opener connects to the database.
	// Default: app.OpenPostgres
	Opener app.Opener

	// Hasher derives password hashes.
	// Default: auth.NewPBKDF2Hasher
	Hasher auth.PasswordHasher
}

// ServeApp wraps the methods serve uses from app.App.
type ServeApp interface {
	Start()
	EnsureReady(ctx context.Context) (*app.Runtime, error)
	Ready() bool
	Handler() http.Handler
	Sessions() *auth.MemoryRegistry
	Close(ctx context.Context)
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Pending() ([]uint, error)
	Applied() ([]uint, error)
	Close() error
}

func (d *ServeDeps) withDefaults() {
	if d.AppFactory == nil {
		d.AppFactory = func(cfg config.Config, logger *slog.Logger) ServeApp {
			return app.New(cfg, app.WithLogger(logger))
		}
	}
	if d.ObservabilityServerFactory == nil {
		d.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, version, readinessChecker, app.RegisterMetrics)
		}
	}
	if d.ListenerFactory == nil {
		d.ListenerFactory = net.Listen
	}
}

func (d *MigrateDeps) withDefaults() {
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(databaseURL string) (Migrator, error) {
			m, err := store.NewMigrator(databaseURL)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
}

func (d *UserDeps) withDefaults() {
	if d.Opener == nil {
		d.Opener = app.OpenPostgres
	}
	if d.Hasher == nil {
		d.Hasher = auth.NewPBKDF2Hasher()
	}
}
