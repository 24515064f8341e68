package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimEngineCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "claim_engine",
		Name:      "commands_total",
		Help:      "Count of claim commands by outcome kind.",
	}, []string{"command", "outcome"})
	claimEngineCommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "claim_engine",
		Name:      "command_duration_seconds",
		Help:      "Duration of claim commands, including transaction confirmation.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"command", "outcome"})
)

// ClaimEngine tracks metrics for dispatched claim commands.
type ClaimEngine struct{}

// NewClaimEngine constructs a ClaimEngine collector.
func NewClaimEngine() *ClaimEngine {
	return &ClaimEngine{}
}

// ObserveCommand records a finished command and the kind of outcome it produced.
func (ClaimEngine) ObserveCommand(command, outcome string, started time.Time) {
	command, outcome = orUnknown(command), orUnknown(outcome)
	claimEngineCommandsTotal.WithLabelValues(command, outcome).Inc()
	claimEngineCommandDuration.WithLabelValues(command, outcome).Observe(time.Since(started).Seconds())
}
