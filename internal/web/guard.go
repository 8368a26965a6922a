// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package web

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
)

// RequireSession redirects requests without a live session to the login
// page. Otherwise the resolved identity is attached to the request context.
func RequireSession(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ReadSessionCookie(r)
			if !ok {
				http.Redirect(w, r, PathLogin, http.StatusFound)
				return
			}
			id, ok := a.Authenticate(r.Context(), token)
			if !ok {
				http.Redirect(w, r, PathLogin, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
