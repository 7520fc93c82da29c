package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for moderation,
// notification fanout and proximity checks.
type Metrics struct {
	Transitions *prometheus.CounterVec // labels: target={approved,rejected,safe}

	// Fanout metrics. Outcome distinguishes real sends from simulated ones.
	SMSSends      *prometheus.CounterVec // labels: variant, outcome={sent,failed,simulated}
	FanoutBatches prometheus.Counter
	FanoutSize    prometheus.Histogram
	FanoutLatency prometheus.Histogram

	ProximityChecks *prometheus.CounterVec // labels: tier={safe,warning,danger}
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Transitions,
		m.SMSSends,
		m.FanoutBatches,
		m.FanoutSize,
		m.FanoutLatency,
		m.ProximityChecks,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redzone",
			Name:      "zone_transitions_total",
			Help:      "Successful zone status transitions by target status.",
		}, []string{"target"}),
		SMSSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redzone",
			Name:      "sms_sends_total",
			Help:      "Per-recipient SMS send attempts by variant and outcome.",
		}, []string{"variant", "outcome"}),
		FanoutBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "redzone",
			Name:      "fanout_batches_total",
			Help:      "Notification fanout batches dispatched.",
		}),
		FanoutSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "redzone",
			Name:      "fanout_batch_size",
			Help:      "Recipients per fanout batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		FanoutLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "redzone",
			Name:      "fanout_duration_seconds",
			Help:      "Duration of a complete fanout batch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProximityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "redzone",
			Name:      "proximity_checks_total",
			Help:      "Proximity evaluations by resulting risk tier.",
		}, []string{"tier"}),
	}
}
