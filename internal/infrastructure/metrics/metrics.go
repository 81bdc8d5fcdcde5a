package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LendingMetrics counts and times protocol operations. Each instance owns its registry.
type LendingMetrics struct {
	reg        *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func New() *LendingMetrics {
	m := &LendingMetrics{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lending_operations_total",
			Help: "Protocol operations applied, by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lending_operation_duration_seconds",
			Help:    "Time to apply a protocol operation, including its transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	m.reg.MustRegister(
		m.operations,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *LendingMetrics) Observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *LendingMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *LendingMetrics) Operations() *prometheus.CounterVec { return m.operations }
