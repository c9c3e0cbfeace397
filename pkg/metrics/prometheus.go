// Package metrics counts what happens during an annotation session and writes
// the counters as a Prometheus textfile when the session ends.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/user/touch-ref-logger/tagging"
)

// Manager owns the session's Prometheus metrics.
type Manager struct {
	namespace   string
	subsystem   string
	constLabels map[string]string
	registry    *prometheus.Registry

	inputs          *prometheus.CounterVec
	eventsLogged    *prometheus.CounterVec
	logEntries      prometheus.Gauge
	exports         prometheus.Counter
	exportErrors    prometheus.Counter
	lookups         *prometheus.CounterVec
	playerConnected prometheus.Gauge
}

// NewManager creates a manager on its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "touchref",
		subsystem: "session",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.inputs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "inputs_total",
		Help:        "Handled hotkey inputs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.eventsLogged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "events_logged_total",
		Help:        "Logged events by event label",
		ConstLabels: m.constLabels,
	}, []string{"event"})

	m.logEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "log_entries",
		Help:        "Current number of entries in the event log",
		ConstLabels: m.constLabels,
	})

	m.exports = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_exports_total",
		Help:        "Successful CSV writes, including autosaves",
		ConstLabels: m.constLabels,
	})

	m.exportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_export_errors_total",
		Help:        "Failed CSV writes",
		ConstLabels: m.constLabels,
	})

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "video_lookups_total",
		Help:        "Video metadata lookups by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.playerConnected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "player_connected",
		Help:        "1 while the video player IPC connection is up",
		ConstLabels: m.constLabels,
	})
}

// Observe records one handled input. It never fails.
func (m *Manager) Observe(_ context.Context, out tagging.Outcome) error {
	m.inputs.WithLabelValues(out.Kind.String()).Inc()
	if out.Kind == tagging.OutcomeLogged {
		m.eventsLogged.WithLabelValues(out.Entry.Event).Inc()
		m.logEntries.Set(float64(out.Index + 1))
	}
	return nil
}

// RecordExport counts a CSV write attempt.
func (m *Manager) RecordExport(err error) {
	if err != nil {
		m.exportErrors.Inc()
		return
	}
	m.exports.Inc()
}

// RecordLookup counts a metadata lookup attempt.
func (m *Manager) RecordLookup(err error) {
	if err != nil {
		m.lookups.WithLabelValues("error").Inc()
		return
	}
	m.lookups.WithLabelValues("ok").Inc()
}

// SetPlayerConnected reports the player connection state.
func (m *Manager) SetPlayerConnected(connected bool) {
	if connected {
		m.playerConnected.Set(1)
		return
	}
	m.playerConnected.Set(0)
}

// SetLogEntries sets the entry gauge, e.g. after loading an existing file.
func (m *Manager) SetLogEntries(n int) {
	m.logEntries.Set(float64(n))
}

// Registry returns the registry the metrics are gathered from.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format,
// replacing the file atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}
