package metrics

import (
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider_cache",
		Name:      "resolve_total",
		Help:      "Count of provider binding resolutions by result.",
	}, []string{"network", "result"})
	providerResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "provider_cache",
		Name:      "resolve_duration_seconds",
		Help:      "Duration of provider binding resolutions that missed the cache.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "result"})
	providerInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider_cache",
		Name:      "invalidations_total",
		Help:      "Count of cached provider bindings dropped.",
	}, []string{"network", "reason"})
)

const (
	// ResolveHit is a binding served from the cache.
	ResolveHit = "hit"
	// ResolveBound is a freshly resolved, validated binding.
	ResolveBound = "bound"
	// ResolveRejected is a binding whose chain id did not match.
	ResolveRejected = "rejected"
	// ResolveError is a resolution that failed outright.
	ResolveError = "error"
)

// ProviderCache tracks metrics for the provider binding cache.
type ProviderCache struct{}

// NewProviderCache constructs a ProviderCache collector.
func NewProviderCache() *ProviderCache {
	return &ProviderCache{}
}

// ObserveResolve records the result of a Resolve call.
func (ProviderCache) ObserveResolve(network model.NetworkID, result string, started time.Time) {
	n := network.String()
	providerResolveTotal.WithLabelValues(n, result).Inc()
	if result != ResolveHit {
		providerResolveDuration.WithLabelValues(n, result).Observe(time.Since(started).Seconds())
	}
}

// ObserveInvalidation records a dropped binding.
func (ProviderCache) ObserveInvalidation(network model.NetworkID, reason string) {
	providerInvalidationsTotal.WithLabelValues(network.String(), orUnknown(reason)).Inc()
}
