package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canopy/pkg/manager"
)

// Metrics holds the Prometheus collectors for manager operations.
type Metrics struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_operations_total",
				Help: "Total number of lock manager operations by outcome",
			},
			[]string{"op", "result"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "canopy_operation_duration_seconds",
				Help: "Duration of lock manager operations",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.operations, m.durations)
	return m
}

// Hooks returns manager lifecycle hooks that record every operation.
func (m *Metrics) Hooks() manager.Hooks {
	return manager.Hooks{
		OnOperation: func(e manager.Event) {
			result := "denied"
			if e.OK {
				result = "granted"
			}
			m.operations.WithLabelValues(e.Op, result).Inc()
			m.durations.WithLabelValues(e.Op).Observe(e.Elapsed.Seconds())
		},
	}
}
