// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/pkg/errutil"
)

// UnavailableBody is the only detail a client sees when initialization failed.
const UnavailableBody = "Internal Server Error"

// ReadyFunc returns the application handler once initialization has
// completed, blocking until then.
type ReadyFunc func(ctx context.Context) (http.Handler, error)

// Entry adapts a lazily initialized application to http.Handler. Every
// request waits for ready; on failure it answers 500 with UnavailableBody.
// Entry holds no per-request state.
func Entry(ready ReadyFunc, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, err := ready(r.Context())
		if err != nil {
			entryFailures.Inc()
			logger.WarnContext(r.Context(), "application unavailable",
				"method", r.Method,
				"path", r.URL.Path,
				"code", errutil.Code(err),
			)
			http.Error(w, UnavailableBody, http.StatusInternalServerError)
			return
		}
		h.ServeHTTP(w, r)
	})
}
