// Package metrics holds the Prometheus collectors of the recommender.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"kind"}, // "skills", "results"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"kind"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_cache_errors_total",
			Help: "Total number of cache backend errors, treated as misses",
		},
		[]string{"kind", "operation"},
	)

	// GitHub
	GitHubRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_github_requests_total",
			Help: "Total number of GitHub API requests",
		},
		[]string{"endpoint", "status"}, // status: "ok", "error", "rejected"
	)

	GitHubRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillscout_github_request_duration_seconds",
			Help:    "Duration of GitHub API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "skillscout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Pipeline
	ReposScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_repositories_scored_total",
			Help: "Total number of repositories scored",
		},
		[]string{"mode"},
	)

	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_enrichment_failures_total",
			Help: "Total number of repositories whose hydration step failed",
		},
		[]string{"step"}, // "good_first_issues", "enrich"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillscout_recommend_duration_seconds",
			Help:    "End-to-end duration of a recommendation request",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"mode", "cached"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillscout_notifications_total",
			Help: "Total number of digest notifications",
		},
		[]string{"status"},
	)
)

// ObserveGitHub records one GitHub API call.
func ObserveGitHub(endpoint string, start time.Time, err error) {
	GitHubRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	GitHubRequests.WithLabelValues(endpoint, status).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
