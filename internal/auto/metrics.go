package auto

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tableBuilds *prometheus.CounterVec
}

// NewMetrics registers resolver metrics with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokenizer_resolutions_total",
				Help:      "Total number of tokenizer class resolutions",
			},
			[]string{"strategy", "outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tokenizer_resolution_duration_seconds",
				Help:      "Tokenizer class resolution duration in seconds",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"strategy"},
		),
		tableBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokenizer_table_builds_total",
				Help:      "Total number of lazily built config-class table entries",
			},
			[]string{"arch"},
		),
	}
}

func (m *Metrics) recordResolution(strategy Strategy, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.resolutions.WithLabelValues(string(strategy), outcome).Inc()
	m.duration.WithLabelValues(string(strategy)).Observe(elapsed.Seconds())
}

func (m *Metrics) recordTableBuild(arch Arch) {
	if m == nil {
		return
	}
	m.tableBuilds.WithLabelValues(string(arch)).Inc()
}
