package metric

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric the service registers.
const Namespace = "agrodash"

type IncrementalCounter interface {
	Increment(val ...string)
}

type DurationObserver interface {
	Observe(d time.Duration, val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// Histogram records durations in seconds.
type Histogram struct {
	Name string
	Help string

	vec *prometheus.HistogramVec
}

func (h *Histogram) Observe(d time.Duration, val ...string) {
	h.vec.WithLabelValues(val...).Observe(d.Seconds())
}

// NewCounterWithRegistry registers a namespaced counter vector on reg. Registering
// the same counter twice returns the collector that is already registered, so
// several components can share one registry.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
	}, labels)

	return &Counter{
		Name: name,
		Help: help,
		vec:  register(reg, counter),
	}
}

// NewHistogramWithRegistry registers a namespaced duration histogram on reg with
// the default buckets.
func NewHistogramWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) DurationObserver {
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      name,
		Help:      help,
		Buckets:   prometheus.DefBuckets,
	}, labels)

	return &Histogram{
		Name: name,
		Help: help,
		vec:  register(reg, hist),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
