// Package metrics holds the Prometheus collectors for the plann.er API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification kinds, used as the "kind" label.
const (
	KindTripConfirmation  = "trip_confirmation"
	KindParticipantInvite = "participant_invite"
)

// Confirmation targets, used as the "entity" label.
const (
	EntityTrip        = "trip"
	EntityParticipant = "participant"
)

// Metrics groups the counters the service and mail packages update.
// A nil *Metrics is valid and records nothing, which keeps unit tests free
// of registry plumbing.
type Metrics struct {
	registry      *prometheus.Registry
	notifications *prometheus.CounterVec
	confirmations *prometheus.CounterVec
}

// New registers the plann.er collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_notifications_total",
			Help: "Notification emails handed to the sender, by kind and result.",
		}, []string{"kind", "result"}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_confirmations_total",
			Help: "Confirmation links followed, by entity and whether state changed.",
		}, []string{"entity", "outcome"}),
	}
	reg.MustRegister(
		m.notifications,
		m.confirmations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// NotificationSent counts one successful send.
func (m *Metrics) NotificationSent(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, "sent").Inc()
}

// NotificationFailed counts one failed send.
func (m *Metrics) NotificationFailed(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, "failed").Inc()
}

// Confirmed counts a confirmation. changed is false when the entity was
// already confirmed and the call was a no-op.
func (m *Metrics) Confirmed(entity string, changed bool) {
	if m == nil {
		return
	}
	outcome := "confirmed"
	if !changed {
		outcome = "already_confirmed"
	}
	m.confirmations.WithLabelValues(entity, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
