// Package metrics registers the engine's Prometheus collectors.
// They are exported on /metrics by the HTTP adapter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Runs counts engine invocations by mode and outcome.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "douglas_runs_total",
		Help: "Galaxy executions by mode and outcome.",
	}, []string{"mode", "outcome"})

	// PersistFailures counts non-fatal persistence failures.
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "douglas_persist_failures_total",
		Help: "Store writes that degraded to a warning.",
	})
)
