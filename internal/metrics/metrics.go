// Package metrics exposes prometheus collectors for the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build many instances.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	eventsLogged   *prometheus.CounterVec
	eventsDeleted  prometheus.Counter
	publishErrors  prometheus.Counter
	programChanges *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quitplan_http_requests_total",
			Help: "HTTP requests processed, by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quitplan_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		eventsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quitplan_consumption_events_logged_total",
			Help: "Consumption events recorded, by trigger.",
		}, []string{"trigger"}),
		eventsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quitplan_consumption_events_deleted_total",
			Help: "Consumption events removed.",
		}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quitplan_event_publish_errors_total",
			Help: "Failed attempts to publish consumption events.",
		}),
		programChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quitplan_program_changes_total",
			Help: "Reduction programs started or cleared.",
		}, []string{"action"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.eventsLogged,
		m.eventsDeleted,
		m.publishErrors,
		m.programChanges,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// EventLogged counts a recorded consumption event.
func (m *Metrics) EventLogged(trigger string) {
	if m == nil {
		return
	}
	m.eventsLogged.WithLabelValues(trigger).Inc()
}

// EventDeleted counts a removed consumption event.
func (m *Metrics) EventDeleted() {
	if m == nil {
		return
	}
	m.eventsDeleted.Inc()
}

// PublishFailed counts a failed publish.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

// ProgramChanged counts a program start or clear.
func (m *Metrics) ProgramChanged(action string) {
	if m == nil {
		return
	}
	m.programChanges.WithLabelValues(action).Inc()
}
