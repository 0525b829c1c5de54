// Package metrics exposes the Prometheus collectors of the work order service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"net/http"
	"time"

	"repairshop/internal/pkg/retry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "repairshop"

// Transition outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeAuditWarning = "audit_warning"
	OutcomeRejected     = "rejected"
	OutcomeFailed       = "failed"
)

// Metrics owns the service collectors. It implements the transition, overdue
// gauge, permission and retry recorder interfaces of the core packages.
// Every method is safe on a nil *Metrics and then does nothing.
//
// Example:
//
//	m := metrics.New()
//	handler := commands.NewTransitionStatusCommandHandler(orders, events, rules, retrier,
//	    commands.WithTransitionRecorder(m))
//	e.GET("/metrics", echo.WrapHandler(m.Handler()))
type Metrics struct {
	registry *prometheus.Registry

	transitions        *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	auditWriteFailures prometheus.Counter
	retryEvents        *prometheus.CounterVec
	overdueOrders      prometheus.Gauge
	permissionChecks   *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry together with the Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "status_transitions_total",
				Help:      "Total number of status transitions by target status and outcome",
			},
			[]string{"status", "outcome"},
		),
		transitionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "status_transition_duration_seconds",
				Help:      "Duration of status transitions including retries",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
		auditWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "audit_write_failures_total",
				Help:      "Total number of status changes persisted without an audit entry",
			},
		),
		retryEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "retry_events_total",
				Help:      "Total number of retry signals by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		overdueOrders: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "overdue_orders",
				Help:      "Number of open work orders past the overdue threshold at the last scan",
			},
		),
		permissionChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "permission_checks_total",
				Help:      "Total number of permission checks by decision",
			},
			[]string{"decision"},
		),
	}

	registry.MustRegister(
		m.transitions,
		m.transitionDuration,
		m.auditWriteFailures,
		m.retryEvents,
		m.overdueOrders,
		m.permissionChecks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the dedicated registry, for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordTransition counts one transition attempt. status must be a bounded
// value such as a rule-table id.
func (m *Metrics) RecordTransition(status, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status, outcome).Inc()
	m.transitionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == OutcomeAuditWarning {
		m.auditWriteFailures.Inc()
	}
}

// SetOverdueOrders publishes the size of the latest overdue scan.
func (m *Metrics) SetOverdueOrders(count int) {
	if m == nil {
		return
	}
	m.overdueOrders.Set(float64(count))
}

// RecordPermissionCheck counts one permission decision.
func (m *Metrics) RecordPermissionCheck(decision string) {
	if m == nil {
		return
	}
	m.permissionChecks.WithLabelValues(decision).Inc()
}

// Notify counts retry signals.
func (m *Metrics) Notify(_ context.Context, event retry.Event) {
	if m == nil {
		return
	}
	m.retryEvents.WithLabelValues(event.Operation, event.Outcome.String()).Inc()
}

var _ retry.Notifier = (*Metrics)(nil)
