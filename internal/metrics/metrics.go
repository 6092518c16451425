// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goodplace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "goodplace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	participationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goodplace",
			Subsystem: "registration",
			Name:      "transitions_total",
			Help:      "Participation state transitions by resulting state.",
		},
		[]string{"transition"},
	)
)

// Transition labels.
const (
	TransitionConfirmed   = "confirmed"
	TransitionWaitlisted  = "waitlisted"
	TransitionReactivated = "reactivated"
	TransitionCancelled   = "cancelled"
	TransitionPromoted    = "promoted"
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		participationTransitions,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, route, status string, seconds float64) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveTransition counts one participation state change.
func ObserveTransition(transition string) {
	participationTransitions.WithLabelValues(transition).Inc()
}
