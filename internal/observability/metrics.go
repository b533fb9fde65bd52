// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pricing metrics
	PointsCommitted prometheus.Counter
	PointsSkipped   prometheus.Counter
	RecordsDropped  prometheus.Counter
	PricingRuns     *prometheus.CounterVec
	PricingDuration prometheus.Histogram

	// Broadcast metrics
	BroadcastsSent       prometheus.Counter
	PointsBroadcast      prometheus.Counter
	SubscribersConnected prometheus.Gauge

	// Store polling metrics
	PollDuration prometheus.Histogram
	PollErrors   prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "player_stock"
	}

	return &Metrics{
		// Pricing metrics
		PointsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "points_committed_total",
			Help:      "Total number of price points committed",
		}),
		PointsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "points_skipped_total",
			Help:      "Total number of already-committed slots skipped",
		}),
		RecordsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "records_dropped_total",
			Help:      "Total number of input records dropped for missing identity",
		}),
		PricingRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "runs_total",
			Help:      "Total number of pricing runs by status",
		}, []string{"status"}),
		PricingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "run_duration_seconds",
			Help:      "Pricing run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Broadcast metrics
		BroadcastsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "messages_total",
			Help:      "Total number of broadcast messages queued to subscribers",
		}),
		PointsBroadcast: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "points_total",
			Help:      "Total number of price points pushed to subscribers",
		}),
		SubscribersConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "subscribers_connected",
			Help:      "Current number of connected websocket subscribers",
		}),

		// Store polling metrics
		PollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "poll_duration_seconds",
			Help:      "Store poll duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "poll_errors_total",
			Help:      "Total number of failed store polls",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPricingRun records one pricing run's outcome and duration.
func RecordPricingRun(status string, committed, skipped, dropped int, seconds float64) {
	DefaultMetrics.PricingRuns.WithLabelValues(status).Inc()
	DefaultMetrics.PricingDuration.Observe(seconds)
	DefaultMetrics.PointsCommitted.Add(float64(committed))
	DefaultMetrics.PointsSkipped.Add(float64(skipped))
	DefaultMetrics.RecordsDropped.Add(float64(dropped))
}

// RecordBroadcast counts one fan-out of freshly committed points.
func RecordBroadcast(points int) {
	DefaultMetrics.BroadcastsSent.Inc()
	DefaultMetrics.PointsBroadcast.Add(float64(points))
}

// UpdateSubscribers sets the connected-subscriber gauge.
func UpdateSubscribers(n int) {
	DefaultMetrics.SubscribersConnected.Set(float64(n))
}

// RecordPoll records one store poll.
func RecordPoll(seconds float64, err error) {
	DefaultMetrics.PollDuration.Observe(seconds)
	if err != nil {
		DefaultMetrics.PollErrors.Inc()
	}
}
