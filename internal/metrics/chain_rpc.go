package metrics

import (
	"time"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_rpc",
		Name:      "operations_total",
		Help:      "Count of chain JSON-RPC calls.",
	}, []string{"operation", "network", "source", "status"})
	chainRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_rpc",
		Name:      "operation_duration_seconds",
		Help:      "Duration of chain JSON-RPC calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "source", "status"})
)

// ChainRPC tracks metrics for JSON-RPC calls made to a node or wallet.
type ChainRPC struct {
	network string
	source  string
}

// NewChainRPC constructs a metrics collector for calls against one connection.
func NewChainRPC(network model.NetworkID, source string) *ChainRPC {
	n := ""
	if network != 0 {
		n = network.String()
	}
	return &ChainRPC{network: orUnknown(n), source: orUnknown(source)}
}

// Observe records a single RPC call outcome and duration.
func (m ChainRPC) Observe(operation string, err error, started time.Time) {
	s := status(err)
	chainRPCRequestsTotal.WithLabelValues(operation, m.network, m.source, s).Inc()
	chainRPCRequestDuration.WithLabelValues(operation, m.network, m.source, s).Observe(time.Since(started).Seconds())
}
