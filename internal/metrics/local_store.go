package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	localStoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "local_store",
		Name:      "operations_total",
		Help:      "Count of claim store and session state operations.",
	}, []string{"operation", "status"})
	localStoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "local_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of claim store and session state operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"operation", "status"})
)

// LocalStore tracks metrics for the embedded claim store.
type LocalStore struct{}

// NewLocalStore constructs a LocalStore collector.
func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

// Observe records a single store operation.
func (LocalStore) Observe(operation string, err error, started time.Time) {
	s := status(err)
	localStoreOperationsTotal.WithLabelValues(operation, s).Inc()
	localStoreOperationDuration.WithLabelValues(operation, s).Observe(time.Since(started).Seconds())
}
