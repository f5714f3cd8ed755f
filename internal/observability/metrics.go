// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesCast counts ledger writes by transition outcome (created, removed, switched).
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniforum_votes_cast_total",
		Help: "Total number of vote ledger writes by transition",
	}, []string{"transition"})

	// VoteCounterClamps counts times a post counter would have gone negative
	// and was clamped to zero. Any increment here indicates a ledger bug.
	VoteCounterClamps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniforum_vote_counter_clamps_total",
		Help: "Total number of post vote counters clamped at zero",
	}, []string{"counter"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniforum_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniforum_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// InitMetrics creates the Fiber Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
