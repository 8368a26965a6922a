// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package web serves the login flow and the protected dashboard.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blog"
)

// Route paths.
const (
	PathLogin     = "/login"
	PathLogout    = "/logout"
	PathDashboard = "/dashboard"
)

// Authenticator is the part of auth.Service the handlers need.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, auth.Identity, error)
	Logout(ctx context.Context, token string)
	Authenticate(ctx context.Context, token string) (auth.Identity, bool)
}

var _ Authenticator = (*auth.Service)(nil)

// Deps are the collaborators NewRouter wires into handlers.
type Deps struct {
	Auth Authenticator
	// Stats is optional; without it the dashboard omits blog activity.
	Stats        blog.StatsReader
	Logger       *slog.Logger
	CookieSecure bool
}

type handlers struct {
	auth   Authenticator
	stats  blog.StatsReader
	logger *slog.Logger
	cookie CookiePolicy
}

// NewRouter builds the application routes behind the standard middleware chain.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Auth == nil {
		return nil, oops.Code("WEB_ROUTER_INVALID").Errorf("authenticator is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handlers{
		auth:   deps.Auth,
		stats:  deps.Stats,
		logger: logger,
		cookie: CookiePolicy{Secure: deps.CookieSecure},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+PathLogin, h.loginForm)
	mux.HandleFunc("POST "+PathLogin, h.login)
	mux.HandleFunc("POST "+PathLogout, h.logout)
	mux.Handle("GET "+PathDashboard, RequireSession(deps.Auth)(http.HandlerFunc(h.dashboard)))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PathDashboard, http.StatusFound)
	})

	return Chain(mux,
		RecoverPanic(logger),
		RequestID(),
		AccessLog(logger),
	), nil
}
