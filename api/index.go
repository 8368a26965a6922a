// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package handler is the serverless entry point. The platform calls Handler
// for every invocation; the application is built once per process and
// bootstraps on the first request.
package handler

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/logging"
)

var (
	buildOnce sync.Once
	entry     http.Handler
)

func build() http.Handler {
	cfg, err := config.FromEnv()
	if err != nil {
		// Unparseable environment fails every request through the bootstrap
		// with the default config, which cannot find a database.
		cfg = config.Default()
	}
	level, levelErr := cfg.SlogLevel()
	if levelErr != nil {
		level = slog.LevelInfo
	}
	logger := logging.SetDefault(logging.Options{
		Service: "inkpost",
		Version: "serverless",
		Format:  cfg.Log.Format,
		Level:   level,
	})
	if err != nil {
		logger.Error("invalid environment configuration", "error", err)
	}
	return app.New(cfg, app.WithLogger(logger)).Handler()
}

// Handler serves one request.
func Handler(w http.ResponseWriter, r *http.Request) {
	buildOnce.Do(func() { entry = build() })
	entry.ServeHTTP(w, r)
}
