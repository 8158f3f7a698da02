// Package metrics holds the Prometheus instruments. All are registered on
// the default registry and exposed through promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts handled requests by route and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "editassist",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total handled HTTP requests.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks request latency by route.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "editassist",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// RelayCalls counts relay calls to the text-generation service by outcome.
var RelayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "editassist",
	Subsystem: "relay",
	Name:      "calls_total",
	Help:      "Total relay calls by outcome (ok, failed, rejected).",
}, []string{"outcome"})

// CreditsSpent counts credits debited for assistant usage.
var CreditsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "editassist",
	Subsystem: "credits",
	Name:      "spent_total",
	Help:      "Total credits debited for assistant usage.",
})

// CreditsGranted counts credits granted by source.
var CreditsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "editassist",
	Subsystem: "credits",
	Name:      "granted_total",
	Help:      "Total credits granted by source (welcome, purchase, refund).",
}, []string{"source"})
