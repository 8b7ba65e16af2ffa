package router

import "github.com/prometheus/client_golang/prometheus"

type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeMalformed    Outcome = "malformed"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeUnknown      Outcome = "unknown"
)

// Metrics counts routed events by wire name and outcome.
type Metrics struct {
	events *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderdesk",
			Name:      "events_total",
			Help:      "Inbound channel events by name and routing outcome.",
		}, []string{"event", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.events)
	}
	return m
}

func (m *Metrics) observe(name string, outcome Outcome) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(name, string(outcome)).Inc()
}
