package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navigate_decisions_total",
			Help: "Intent decisions by outcome",
		},
		[]string{"outcome"},
	)

	requestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "navigate_request_duration_seconds",
			Help:    "End-to-end navigate request latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Init registers the collectors. Must be called once at startup.
func Init() {
	prometheus.MustRegister(decisionsTotal, requestDuration)
}

// RecordDecision counts one decision outcome.
func RecordDecision(outcome string) {
	decisionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one request's latency in seconds.
func ObserveRequest(seconds float64) {
	requestDuration.Observe(seconds)
}
