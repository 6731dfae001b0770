package observability

import (
	"net/http"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the transition collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	reused      prometheus.Counter
	hookErrors  *prometheus.CounterVec
}

// NewMetrics registers the transition collectors in a fresh registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry registers the transition collectors in reg.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "waypoint",
				Subsystem: "transition",
				Name:      "events_total",
				Help:      "Transition lifecycle events by type.",
			},
			[]string{"event"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "waypoint",
				Subsystem: "transition",
				Name:      "duration_seconds",
				Help:      "Time from transition start to completion, abort or redirect.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		reused: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "waypoint",
				Subsystem: "transition",
				Name:      "reused_views_total",
				Help:      "View nodes kept in place by completed transitions.",
			},
		),
		hookErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "waypoint",
				Subsystem: "hook",
				Name:      "errors_total",
				Help:      "Hook failures by target path.",
			},
			[]string{"to"},
		),
	}
	reg.MustRegister(m.transitions, m.duration, m.reused, m.hookErrors)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records every lifecycle event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	count := func(e *domain.TransitionEvent) {
		m.transitions.WithLabelValues(string(e.Type)).Inc()
	}
	settle := func(outcome string) func(*domain.TransitionEvent) {
		return func(e *domain.TransitionEvent) {
			count(e)
			m.duration.WithLabelValues(outcome).Observe(e.Elapsed.Seconds())
		}
	}
	return domain.LifecycleHooks{
		OnStart:  count,
		OnCommit: count,
		OnComplete: func(e *domain.TransitionEvent) {
			settle("complete")(e)
			m.reused.Add(float64(e.Reused))
		},
		OnAbort:    settle("abort"),
		OnRedirect: settle("redirect"),
		OnHookError: func(e *domain.TransitionEvent) {
			count(e)
			m.hookErrors.WithLabelValues(e.To).Inc()
		},
	}
}
