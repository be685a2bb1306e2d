// Package observability exposes Prometheus metrics for the ranking service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service-level Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	rankRequests  *prometheus.CounterVec
	rankLatency   prometheus.Histogram
	rankedMentors prometheus.Histogram

	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	syncRowCount *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewMetrics creates all collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		rankRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mentormatch",
			Name:      "rank_requests_total",
			Help:      "Ranking requests by outcome.",
		}, []string{"outcome"}),

		rankLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mentormatch",
			Name:      "rank_request_seconds",
			Help:      "Ranking request latency.",
			Buckets:   prometheus.DefBuckets,
		}),

		rankedMentors: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mentormatch",
			Name:      "rank_eligible_mentors",
			Help:      "Eligible mentors per ranking request.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),

		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mentormatch",
			Name:      "sync_runs_total",
			Help:      "Profile sync runs by outcome.",
		}, []string{"outcome"}),

		syncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mentormatch",
			Name:      "sync_duration_seconds",
			Help:      "Profile sync duration.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),

		syncRowCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mentormatch",
			Name:      "sync_rows",
			Help:      "Rows loaded by the last successful sync, per table.",
		}, []string{"table"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mentormatch",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),

		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mentormatch",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler returns the /metrics HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRank records one ranking request.
func (m *Metrics) ObserveRank(outcome string, eligible int, elapsed time.Duration) {
	m.rankRequests.WithLabelValues(outcome).Inc()
	m.rankLatency.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.rankedMentors.Observe(float64(eligible))
	}
}

// ObserveSync records one sync run.
func (m *Metrics) ObserveSync(outcome string, students, mentors, synonyms int, elapsed time.Duration) {
	m.syncRuns.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.syncRowCount.WithLabelValues("students").Set(float64(students))
		m.syncRowCount.WithLabelValues("mentors").Set(float64(mentors))
		m.syncRowCount.WithLabelValues("synonyms").Set(float64(synonyms))
	}
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, statusClass(status)).Inc()
	m.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Outcome labels shared by the counters.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeBusy     = "busy"
)

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
