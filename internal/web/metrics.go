// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package web

import "github.com/prometheus/client_golang/prometheus"

var httpRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkpost_http_requests_total",
		Help: "HTTP requests by route pattern and status code",
	},
	[]string{"route", "status"},
)

var httpDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "inkpost_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route"},
)

var entryFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "inkpost_http_unavailable_total",
	Help: "Requests rejected because the application failed to initialize",
})

// RegisterMetrics registers the HTTP metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(httpRequests, httpDuration, entryFailures)
}
