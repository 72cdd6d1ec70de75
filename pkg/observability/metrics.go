package observability

import (
	"context"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "morenodes"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the Prometheus collectors for node evaluation and color conversion.
type Metrics struct {
	computes    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	conversions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if they are already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		computes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_computes_total",
				Help:      "Total number of node compute calls",
			},
			[]string{"node_type", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "node_compute_duration_seconds",
				Help:      "Duration of node compute calls",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"node_type"},
		),
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "color_conversions_total",
				Help:      "Total number of RGB to HSV conversions",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.computes, m.duration, m.conversions)
	return m
}

// Hooks returns lifecycle hooks that record compute outcomes and durations.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompute: func(ctx context.Context, e *domain.ComputeEvent) {
			m.computes.WithLabelValues(e.NodeType, result(e.Success)).Inc()
			m.duration.WithLabelValues(e.NodeType).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveConversion records the outcome of one color conversion.
func (m *Metrics) ObserveConversion(err error) {
	m.conversions.WithLabelValues(result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}
