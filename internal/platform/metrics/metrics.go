package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide counters for the distribution engine. Registered on the
// default registry and served by the API process at /metrics.
var (
	RecomputeRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "copany",
		Subsystem: "distribution",
		Name:      "recompute_runs_total",
		Help:      "Completed per-copany history recompute runs.",
	})

	RecomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "copany",
		Subsystem: "distribution",
		Name:      "recompute_failures_total",
		Help:      "Failed copany or month recomputations.",
	})

	RecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "copany",
		Subsystem: "distribution",
		Name:      "records_written_total",
		Help:      "Distribution records written by recomputations.",
	})
)
