package prime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "primes"
	storeSubsystem   = "store"
)

// Metrics holds the Prometheus collectors updated by a Store. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "lookups_total",
				Help:      "Store lookups by statement type and result (hit or miss)",
			},
			[]string{"type", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "compute_duration_seconds",
				Help:      "Time spent computing a sequence on a cache miss",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
			},
			[]string{"type"},
		),
	}
	reg.MustRegister(m.lookups, m.duration)
	return m
}

func (m *Metrics) hit(typ string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(typ, "hit").Inc()
}

func (m *Metrics) miss(typ string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(typ, "miss").Inc()
	m.duration.WithLabelValues(typ).Observe(elapsed.Seconds())
}
