// Package metrics exposes the service's Prometheus instruments. They are
// registered on the default registry and served from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache reads that returned a valid entry, by query kind.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendpulse_cache_hits_total",
		Help: "Cache hits by query kind",
	}, []string{"kind"})

	// CacheMisses counts cache reads that fell through to upstream.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendpulse_cache_misses_total",
		Help: "Cache misses by query kind",
	}, []string{"kind"})

	// UpstreamRequests counts calls through the circuit breaker, by widget
	// kind and outcome (ok, error, rejected).
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendpulse_upstream_requests_total",
		Help: "Upstream trend-data requests by kind and outcome",
	}, []string{"kind", "outcome"})

	// BreakerState tracks the upstream circuit breaker: 0 closed, 1 half-open,
	// 2 open.
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendpulse_upstream_breaker_state",
		Help: "Upstream circuit breaker state (0=closed, 1=half-open, 2=open)",
	})
)
