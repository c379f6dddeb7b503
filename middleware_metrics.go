package berth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcomes reported by MetricsMiddleware.
const (
	OutcomeCreated = "created"
	OutcomeCached  = "cached"
	OutcomeError   = "error"
)

// MetricsMiddleware records resolution counts and latencies in Prometheus.
type MetricsMiddleware struct {
	resolutions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetricsMiddleware creates the collectors and registers them with reg.
//
// Exported series:
//
//	<namespace>_container_resolutions_total{service, lifetime, outcome}
//	<namespace>_container_resolve_duration_seconds{lifetime}
func NewMetricsMiddleware(reg prometheus.Registerer, namespace string) (*MetricsMiddleware, error) {
	m := &MetricsMiddleware{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Total number of service resolutions.",
			},
			[]string{"service", "lifetime", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolve_duration_seconds",
				Help:      "Duration of service resolutions in seconds, including nested dependencies.",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"lifetime"},
		),
	}

	for _, c := range []prometheus.Collector{m.resolutions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register container metrics")
		}
	}

	return m, nil
}

// BeforeResolve implements Middleware.
func (m *MetricsMiddleware) BeforeResolve(context.Context, ResolveEvent) error {
	return nil
}

// AfterResolve implements Middleware.
func (m *MetricsMiddleware) AfterResolve(_ context.Context, ev ResolveEvent, _ any, err error) error {
	outcome := OutcomeCreated
	switch {
	case err != nil:
		outcome = OutcomeError
	case ev.Cached:
		outcome = OutcomeCached
	}

	lifetime := ev.Lifetime.String()
	m.resolutions.WithLabelValues(ev.Key.String(), lifetime, outcome).Inc()
	m.duration.WithLabelValues(lifetime).Observe(time.Since(ev.Started).Seconds())

	return nil
}
