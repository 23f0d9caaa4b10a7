// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLoaded = "loaded"
	resultFailed = "failed"

	outcomeOverride = "override"
	outcomeNone     = "none"
	outcomeInvalid  = "invalid"
)

// Metrics counts plugin activity. A nil *Metrics records nothing.
type Metrics struct {
	LoadsTotal     *prometheus.CounterVec
	CallsTotal     *prometheus.CounterVec
	SelectOutcomes *prometheus.CounterVec
}

// NewMetrics creates and registers the plugin metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pssh_plugin_loads_total",
				Help: "Total number of plugin load attempts by result",
			},
			[]string{"result"},
		),
		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pssh_plugin_calls_total",
				Help: "Total number of plugin entry point calls by plugin and entry point",
			},
			[]string{"plugin", "entrypoint"},
		),
		SelectOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pssh_plugin_select_outcomes_total",
				Help: "Total number of on_item_select results by plugin and outcome",
			},
			[]string{"plugin", "outcome"},
		),
	}

	reg.MustRegister(m.LoadsTotal)
	reg.MustRegister(m.CallsTotal)
	reg.MustRegister(m.SelectOutcomes)

	return m
}

func (m *Metrics) recordLoad(result string) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) recordCall(plugin, entrypoint string) {
	if m == nil {
		return
	}
	m.CallsTotal.WithLabelValues(plugin, entrypoint).Inc()
}

func (m *Metrics) recordSelect(plugin, outcome string) {
	if m == nil {
		return
	}
	m.SelectOutcomes.WithLabelValues(plugin, outcome).Inc()
}
