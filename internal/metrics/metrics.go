// Package metrics exposes provisioning progress as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/capacityhunt/internal/provisioning"
)

const namespace = "capacityhunt"

// Recorder is a provisioning.Observer that updates Prometheus collectors.
type Recorder struct {
	registry *prometheus.Registry

	attemptsTotal     *prometheus.CounterVec
	transportFailures *prometheus.CounterVec
	waitSeconds       *prometheus.CounterVec
	lastAttempt       *prometheus.GaugeVec
	notificationsSent *prometheus.CounterVec
	finished          *prometheus.GaugeVec
}

var _ provisioning.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provisioning",
				Name:      "attempts_total",
				Help:      "Total number of create requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),

		transportFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provisioning",
				Name:      "transport_failures_total",
				Help:      "Total number of create requests that received no response",
			},
			[]string{"provider"},
		),

		waitSeconds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provisioning",
				Name:      "wait_seconds_total",
				Help:      "Total time spent waiting between attempts in seconds",
			},
			[]string{"provider"},
		),

		lastAttempt: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "provisioning",
				Name:      "last_attempt_timestamp_seconds",
				Help:      "Unix time of the most recent attempt",
			},
			[]string{"provider"},
		),

		notificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "messages_total",
				Help:      "Total number of status notifications by result",
			},
			[]string{"result"},
		),

		finished: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "provisioning",
				Name:      "finished",
				Help:      "Whether the run reached a terminal outcome (1) or is still retrying (0)",
			},
			[]string{"provider", "outcome"},
		),
	}

	r.registry.MustRegister(
		r.attemptsTotal,
		r.transportFailures,
		r.waitSeconds,
		r.lastAttempt,
		r.notificationsSent,
		r.finished,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Event implements provisioning.Observer.
func (r *Recorder) Event(event provisioning.Event) {
	switch event.Type {
	case provisioning.EventAttemptCompleted:
		r.attemptsTotal.WithLabelValues(event.Provider, event.Outcome).Inc()
		r.lastAttempt.WithLabelValues(event.Provider).SetToCurrentTime()
	case provisioning.EventAttemptFailed:
		r.transportFailures.WithLabelValues(event.Provider).Inc()
		r.lastAttempt.WithLabelValues(event.Provider).SetToCurrentTime()
	case provisioning.EventWaiting:
		r.waitSeconds.WithLabelValues(event.Provider).Add(event.Wait.Seconds())
	case provisioning.EventNotifySent:
		r.notificationsSent.WithLabelValues("sent").Inc()
	case provisioning.EventNotifyFailed:
		r.notificationsSent.WithLabelValues("failed").Inc()
	case provisioning.EventRunFinished:
		r.finished.WithLabelValues(event.Provider, event.Outcome).Set(1)
	}
}

// WithFields implements provisioning.Observer. Metrics carry no per-run fields.
func (r *Recorder) WithFields(map[string]string) provisioning.Observer {
	return r
}
