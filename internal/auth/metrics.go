// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import "github.com/prometheus/client_golang/prometheus"

// Login outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeThrottled = "throttled"
	OutcomeError     = "error"
)

// LoginAttempts counts login attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkpost_login_attempts_total",
		Help: "Total number of login attempts",
	},
	[]string{"outcome"},
)

// sessionsActive is the number of sessions held across every MemoryRegistry
// in the process. Registries adjust it by delta.
var sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "inkpost_sessions_active",
	Help: "Number of sessions held in memory",
})

// RegisterMetrics registers auth package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(sessionsActive)
}
