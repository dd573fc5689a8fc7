// Package metrics exposes Prometheus instrumentation for the upstream
// provider clients.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequests counts outbound provider requests by method and
	// response status ("transport_error" when no response arrived).
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forkcast_upstream_requests_total",
		Help: "Outbound provider requests by method and status.",
	}, []string{"method", "status"})

	// UpstreamRetries counts single-shot retries after a 401/403.
	UpstreamRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forkcast_upstream_retries_total",
		Help: "Requests re-issued once after a credential rejection.",
	})

	// TokenMints counts successful credential mints by kind.
	TokenMints = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forkcast_token_mints_total",
		Help: "Successful provider token mints by kind.",
	}, []string{"kind"})

	// UpstreamLatency observes outbound request latency in seconds.
	UpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "forkcast_upstream_latency_seconds",
		Help:    "Outbound provider request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the Prometheus scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
