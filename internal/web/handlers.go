// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blog"
	"github.com/inkpost/inkpost/pkg/errutil"
)

// User-facing login messages.
const (
	MsgFieldsRequired     = "Email and password are required."
	MsgInvalidCredentials = "Invalid credentials."
	MsgThrottled          = "Too many failed attempts. Try again later."
)

// maxFormBytes caps the login form body.
const maxFormBytes = 64 << 10

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *handlers) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	errutil.LogErrorContext(r.Context(), h.logger, msg, err)
	render(w, r, http.StatusInternalServerError, ErrorPage("Server Error"))
}

func (h *handlers) loginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, LoginPage("", ""))
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, LoginPage("", MsgFieldsRequired))
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")
	if email == "" || password == "" {
		render(w, r, http.StatusBadRequest, LoginPage(email, MsgFieldsRequired))
		return
	}

	token, _, err := h.auth.Login(r.Context(), email, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		render(w, r, http.StatusUnauthorized, LoginPage(email, MsgInvalidCredentials))
		return
	case errors.Is(err, auth.ErrThrottled):
		render(w, r, http.StatusTooManyRequests, LoginPage(email, MsgThrottled))
		return
	default:
		h.serverError(w, r, "login failed", err)
		return
	}

	WriteSessionCookie(w, token, h.cookie)
	http.Redirect(w, r, PathDashboard, http.StatusFound)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := ReadSessionCookie(r); ok {
		h.auth.Logout(r.Context(), token)
	}
	ClearSessionCookie(w, h.cookie)
	http.Redirect(w, r, PathLogin, http.StatusFound)
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, PathLogin, http.StatusFound)
		return
	}

	var stats *blog.Stats
	if h.stats != nil {
		s, err := h.stats.Stats(r.Context())
		if err != nil {
			h.serverError(w, r, "load dashboard stats", err)
			return
		}
		stats = &s
	}

	render(w, r, http.StatusOK, DashboardPage(id, stats))
}
