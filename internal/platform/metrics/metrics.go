// Package metrics exposes check-in outcome counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Overland-East-Bay/front-desk/internal/app/checkin"
)

// Metrics implements checkin.Metrics on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	lookups  *prometheus.CounterVec
	checkIns *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "member_lookups_total",
			Help:      "Member lookups by input mode and outcome.",
		}, []string{"mode", "outcome"}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "checkin_attempts_total",
			Help:      "Check-in attempts by outcome (recorded, blocked, failed).",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.lookups,
		m.checkIns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) LookupCompleted(mode checkin.Mode, outcome string) {
	m.lookups.WithLabelValues(string(mode), outcome).Inc()
}

func (m *Metrics) CheckInCompleted(outcome string) {
	m.checkIns.WithLabelValues(outcome).Inc()
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
