package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// ProviderCalls counts external road-distance provider queries.
	ProviderCalls = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "road_distance_provider_calls_total", Help: "External road-distance provider queries."},
	)
	// ProviderFallbacks counts provider failures degraded to great-circle.
	ProviderFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "road_distance_provider_fallbacks_total", Help: "Provider failures answered with the great-circle estimate."},
	)
	// DistanceCacheHits counts persisted distances served from the cache.
	DistanceCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "distance_cache_hits_total", Help: "Distances served from the persistent cache."},
	)

	// StrategyAttempts counts solver strategy attempts by name and outcome.
	StrategyAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "search_strategy_attempts_total", Help: "Search strategy attempts by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// GreedyFallbacks counts rounds answered by the greedy assigner.
	GreedyFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "greedy_fallback_rounds_total", Help: "Assignment rounds that fell back to the greedy assigner."},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(ProviderCalls)
		Registry.MustRegister(ProviderFallbacks)
		Registry.MustRegister(DistanceCacheHits)
		Registry.MustRegister(StrategyAttempts)
		Registry.MustRegister(GreedyFallbacks)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
