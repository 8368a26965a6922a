// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Handler builds its application once per process, so every case shares the
// environment set here.
func TestHandler_WithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URL_UNPOOLED", "")
	t.Setenv("LOG_FORMAT", "text")

	t.Run("healthz answers without bootstrap", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Handler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, path := range []string{"/login", "/dashboard"} {
		t.Run(path+" fails opaquely", func(t *testing.T) {
			rec := httptest.NewRecorder()
			Handler(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "Internal Server Error", strings.TrimSpace(rec.Body.String()))
		})
	}
}
