package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login attempts by result (success|invalid_username|invalid_password).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flaskr_auth_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	// EntryOperations counts entry store operations by operation and result.
	EntryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flaskr_entry_operations_total",
			Help: "Total number of entry operations",
		},
		[]string{"operation", "result"},
	)

	// StoredEntries is the number of entries in the store, refreshed by the
	// maintenance scheduler.
	StoredEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flaskr_entries_stored",
			Help: "Number of stored blog entries",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flaskr_http_latency_seconds",
			Help:    "HTTP endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
