// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentvoice_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studentvoice_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active feed WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "studentvoice_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts realtime events fanned out by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentvoice_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentvoice_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// GatewayRequests counts calls to third-party APIs by gateway and outcome.
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentvoice_gateway_requests_total",
		Help: "Calls to external AI and verification APIs",
	}, []string{"gateway", "outcome"})

	// GatewayLatency records third-party API latency.
	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studentvoice_gateway_latency_seconds",
		Help:    "Latency of external AI and verification APIs",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"gateway"})

	// MentorFallbacks counts mentor replies that were not valid JSON.
	MentorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studentvoice_mentor_parse_fallbacks_total",
		Help: "Mentor replies that could not be parsed as JSON",
	})

	// ClientMutations counts optimistic mutations issued by the community client.
	ClientMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studentvoice_client_mutations_total",
		Help: "Optimistic client mutations by action and outcome",
	}, []string{"action", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackGateway records latency for a gateway call and returns a func that
// records the outcome once known.
func TrackGateway(gateway string) func(err error) {
	start := time.Now()
	return func(err error) {
		GatewayLatency.WithLabelValues(gateway).Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		GatewayRequests.WithLabelValues(gateway, outcome).Inc()
	}
}
