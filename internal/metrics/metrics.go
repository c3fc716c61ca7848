package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks inbound snapshot requests by venue and outcome (hit, miss, error).
	SnapshotRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_requests_total",
			Help: "Total number of snapshot requests served (by venue and outcome).",
		},
		[]string{"venue", "outcome"},
	)

	// Tracks outbound API calls to venues.
	VenueRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_api_requests_total",
			Help: "Total number of venue API requests made (by venue, endpoint and status).",
		},
		[]string{"venue", "endpoint", "status"},
	)

	// Measures duration of API requests to venues.
	VenueRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venue_api_request_duration_seconds",
			Help:    "Duration of venue API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"venue", "endpoint"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result (hit, miss).",
		},
		[]string{"result"},
	)

	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Number of NATS publish failures",
		},
		[]string{"subject"},
	)

	NATSMessageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nats_publish_duration_seconds",
			Help:    "Duration of NATS publishes in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"subject"},
	)
)

// ObserveDuration records the time taken since start and updates the given histogram.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// silently ignore counters; they're not meant for duration tracking
	}
}

func IncVenueRequest(venue, endpoint, status string) {
	VenueRequestsTotal.WithLabelValues(venue, endpoint, status).Inc()
}

func IncSnapshotRequest(venue, outcome string) {
	SnapshotRequestsTotal.WithLabelValues(venue, outcome).Inc()
}

func IncCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

func StartServer(addr string) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, nil) //nolint:errcheck
	}()
}
