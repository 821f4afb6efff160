package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	MessagesReceived prometheus.Counter
	DecodeErrors     *prometheus.CounterVec
	FramingErrors    prometheus.Counter
	PointOutcomes    *prometheus.CounterVec
	OpenConnections  prometheus.Gauge
}

// NewMetrics builds the ingest counters and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbd",
			Name:      "messages_received_total",
			Help:      "SBD MO messages handed to the decoder.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbd",
			Name:      "decode_errors_total",
			Help:      "SBD MO messages rejected by the decoder, by error kind.",
		}, []string{"kind"}),
		FramingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sbd",
			Name:      "framing_errors_total",
			Help:      "Stream bytes dropped because no message could be framed.",
		}),
		PointOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sbd",
			Name:      "history_entries_total",
			Help:      "Packet history entries, by status.",
		}, []string{"status"}),
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sbd",
			Name:      "open_connections",
			Help:      "TCP connections currently served.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.MessagesReceived, m.DecodeErrors, m.FramingErrors, m.PointOutcomes, m.OpenConnections)
	}
	return m
}
