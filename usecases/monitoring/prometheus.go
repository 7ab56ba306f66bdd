//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics holds the collectors for all computations sharing one
// registry. Individual runs attach themselves through labels.
type PrometheusMetrics struct {
	Registerer prometheus.Registerer

	PregelIterations    *prometheus.CounterVec
	PregelActiveNodes   *prometheus.GaugeVec
	PregelSentMessages  *prometheus.CounterVec
	PregelRunDuration   *prometheus.SummaryVec
	PregelRunningStates *prometheus.GaugeVec
}

// NewPrometheusMetrics registers all collectors with the default registerer.
func NewPrometheusMetrics() *PrometheusMetrics {
	return newPrometheusMetrics(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsWithRegisterer is useful in tests that need an
// isolated registry.
func NewPrometheusMetricsWithRegisterer(reg prometheus.Registerer) *PrometheusMetrics {
	return newPrometheusMetrics(reg)
}

func newPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	pm := &PrometheusMetrics{
		Registerer: reg,

		PregelIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pregel_iterations_total",
			Help: "Total BSP supersteps executed per computation",
		}, []string{"pregel_id"}),
		PregelActiveNodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pregel_active_nodes",
			Help: "Nodes that have not voted to halt after the last superstep",
		}, []string{"pregel_id"}),
		PregelSentMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pregel_sent_messages_total",
			Help: "Messages handed to the messenger across all supersteps",
		}, []string{"pregel_id"}),
		PregelRunDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name: "pregel_run_duration_seconds",
			Help: "Wall-clock duration of whole computations",
		}, []string{"pregel_id"}),
		PregelRunningStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pregel_running_states",
			Help: "Computations currently in the running state",
		}, []string{"pregel_id"}),
	}

	reg.MustRegister(
		pm.PregelIterations,
		pm.PregelActiveNodes,
		pm.PregelSentMessages,
		pm.PregelRunDuration,
		pm.PregelRunningStates,
	)

	return pm
}
