package operation

import (
	"time"

	"github.com/mchmarny/agrodash/pkg/metric"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	attempts metric.IncrementalCounter
	failures metric.IncrementalCounter
	retries  metric.IncrementalCounter
	duration metric.DurationObserver
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	return &metrics{
		attempts: metric.NewCounterWithRegistry(reg, "operation_attempts_total",
			"Number of operation attempts started.", "operation"),
		failures: metric.NewCounterWithRegistry(reg, "operation_failures_total",
			"Number of failed operation attempts by classification.", "operation", "kind"),
		retries: metric.NewCounterWithRegistry(reg, "operation_retries_total",
			"Number of retries by trigger.", "operation", "trigger"),
		duration: metric.NewHistogramWithRegistry(reg, "operation_duration_seconds",
			"Duration of settled operation attempts.", "operation", "outcome"),
	}
}

func (m *metrics) attempt(op string) {
	if m != nil {
		m.attempts.Increment(op)
	}
}

func (m *metrics) failure(op string, kind Kind, d time.Duration) {
	if m != nil {
		m.failures.Increment(op, kind.String())
		m.duration.Observe(d, op, kind.String())
	}
}

func (m *metrics) success(op string, d time.Duration) {
	if m != nil {
		m.duration.Observe(d, op, "success")
	}
}

func (m *metrics) retry(op, trigger string) {
	if m != nil {
		m.retries.Increment(op, trigger)
	}
}
