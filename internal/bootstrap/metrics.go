// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package bootstrap

import "github.com/prometheus/client_golang/prometheus"

// Run outcome labels.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

var bootstrapRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkpost_bootstrap_runs_total",
		Help: "Total number of bootstrap runs by outcome",
	},
	[]string{"name", "status"},
)

var bootstrapDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "inkpost_bootstrap_duration_seconds",
		Help:    "Bootstrap run duration in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"name"},
)

var bootstrapReady = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "inkpost_bootstrap_ready",
		Help: "1 once bootstrap has completed successfully",
	},
	[]string{"name"},
)

// RegisterMetrics registers bootstrap metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(bootstrapRuns)
	reg.MustRegister(bootstrapDuration)
	reg.MustRegister(bootstrapReady)
}
