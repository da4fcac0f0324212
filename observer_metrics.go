package crate

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const metricsSubsystem = "container"

// MetricsObserver counts cache-miss resolutions and class constructions.
type MetricsObserver struct {
	Resolutions *prometheus.CounterVec
	Injections  *prometheus.CounterVec
	CachedTotal prometheus.Counter
}

var _ Observer = (*MetricsObserver)(nil)

// NewMetricsObserver creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetricsObserver(namespace string, reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{}

	m.Resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: metricsSubsystem,
		Name:      "resolutions_total",
		Help:      "Number of entry resolutions that missed the cache",
	}, []string{"id", "lifetime"})

	m.Injections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: metricsSubsystem,
		Name:      "injections_total",
		Help:      "Number of class constructions",
	}, []string{"id"})

	m.CachedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: metricsSubsystem,
		Name:      "cached_instances_total",
		Help:      "Number of resolutions whose instance was cached",
	})

	if reg == nil {
		return m, nil
	}

	var errs error
	for _, c := range []prometheus.Collector{m.Resolutions, m.Injections, m.CachedTotal} {
		errs = multierr.Append(errs, reg.Register(c))
	}
	if errs != nil {
		return nil, errs
	}

	return m, nil
}

// Resolving implements Observer.
func (m *MetricsObserver) Resolving(ID, Lifetime) {}

// Resolved implements Observer.
func (m *MetricsObserver) Resolved(id ID, lifetime Lifetime, _ any, cached bool) {
	m.Resolutions.WithLabelValues(string(id), lifetime.String()).Inc()
	if cached {
		m.CachedTotal.Inc()
	}
}

// Injecting implements Observer.
func (m *MetricsObserver) Injecting(ID) {}

// Injected implements Observer.
func (m *MetricsObserver) Injected(id ID, _ any) {
	m.Injections.WithLabelValues(string(id)).Inc()
}
