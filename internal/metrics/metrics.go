// Package metrics exposes Prometheus counters for the service's domain
// events and HTTP traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector with its own registry so tests can
// construct instances freely.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec

	TasksCompleted prometheus.Counter
	BadgesAwarded  prometheus.Counter

	SweepRuns        prometheus.Counter
	RemindersSent    *prometheus.CounterVec
	ReminderFailures *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studycloud_http_requests_total",
			Help: "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		TasksCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "studycloud_tasks_completed_total",
			Help: "Tasks toggled to complete.",
		}),
		BadgesAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "studycloud_badges_awarded_total",
			Help: "Badges granted by completion thresholds.",
		}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "studycloud_reminder_sweep_runs_total",
			Help: "Executions of the due-date reminder sweep.",
		}),
		RemindersSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studycloud_reminders_sent_total",
			Help: "Reminder notifications recorded, by threshold.",
		}, []string{"threshold"}),
		ReminderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studycloud_reminder_send_failures_total",
			Help: "Outbound reminder deliveries that failed, by threshold.",
		}, []string{"threshold"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
