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

package pregel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/weaviate/pregel/usecases/monitoring"
)

// Metrics curries the prometheus collectors once at creation time so the
// superstep loop does not pay for label lookups.
type Metrics struct {
	enabled bool

	iterations   prometheus.Counter
	activeNodes  prometheus.Gauge
	sentMessages prometheus.Counter
	runDuration  prometheus.Observer
	running      prometheus.Gauge
}

func NewMetrics(prom *monitoring.PrometheusMetrics, pregelID string) *Metrics {
	if prom == nil {
		return &Metrics{enabled: false}
	}

	labels := prometheus.Labels{"pregel_id": pregelID}

	return &Metrics{
		enabled:      true,
		iterations:   prom.PregelIterations.With(labels),
		activeNodes:  prom.PregelActiveNodes.With(labels),
		sentMessages: prom.PregelSentMessages.With(labels),
		runDuration:  prom.PregelRunDuration.With(labels),
		running:      prom.PregelRunningStates.With(labels),
	}
}

func (m *Metrics) StartRun() {
	if !m.enabled {
		return
	}

	m.running.Inc()
}

func (m *Metrics) EndRun(start time.Time) {
	if !m.enabled {
		return
	}

	m.running.Dec()
	m.runDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IterationCompleted() {
	if !m.enabled {
		return
	}

	m.iterations.Inc()
}

func (m *Metrics) SetActiveNodes(count uint64) {
	if !m.enabled {
		return
	}

	m.activeNodes.Set(float64(count))
}

func (m *Metrics) AddSentMessages(count int64) {
	if !m.enabled || count == 0 {
		return
	}

	m.sentMessages.Add(float64(count))
}
