package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the calculator's Prometheus metrics.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	groupsAdded         prometheus.Counter
	submissionsRejected *prometheus.CounterVec
	groupsRemoved       prometheus.Counter
	exports             *prometheus.CounterVec
	ledgerGroups        prometheus.Gauge
}

// NewMetrics registers every metric in a private registry, so tests can
// build as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		groupsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "arl_groups_added_total",
			Help: "Employee groups accepted into the ledger.",
		}),
		submissionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arl_submissions_rejected_total",
				Help: "Group submissions rejected, by failing field.",
			},
			[]string{"field"},
		),
		groupsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "arl_groups_removed_total",
			Help: "Employee groups removed, one by one or by clearing.",
		}),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arl_exports_total",
				Help: "Documents exported, by format.",
			},
			[]string{"format"},
		),
		ledgerGroups: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arl_ledger_groups",
			Help: "Groups currently in the ledger.",
		}),
	}
}

func (m *Metrics) RecordAdded()                { m.groupsAdded.Inc() }
func (m *Metrics) RecordRejected(field string) { m.submissionsRejected.WithLabelValues(field).Inc() }
func (m *Metrics) RecordRemoved(n int)         { m.groupsRemoved.Add(float64(n)) }
func (m *Metrics) RecordExport(format string)  { m.exports.WithLabelValues(format).Inc() }
func (m *Metrics) SetLedgerSize(n int)         { m.ledgerGroups.Set(float64(n)) }
