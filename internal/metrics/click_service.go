package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clickServiceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "click_service",
		Name:      "requests_total",
		Help:      "Count of requests to the click counting and signing service.",
	}, []string{"operation", "status"})
	clickServiceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "click_service",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests to the click counting and signing service.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// ClickService tracks metrics for the remote click service client.
type ClickService struct{}

// NewClickService constructs a ClickService collector.
func NewClickService() *ClickService {
	return &ClickService{}
}

// Observe records a single request outcome and duration.
func (ClickService) Observe(operation string, err error, started time.Time) {
	s := status(err)
	clickServiceRequestsTotal.WithLabelValues(operation, s).Inc()
	clickServiceRequestDuration.WithLabelValues(operation, s).Observe(time.Since(started).Seconds())
}
