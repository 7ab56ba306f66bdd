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
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// ProgressTracker receives batch-granular progress. Add is called once per
// sequential batch with the whole batch's node count, never per node, and
// may be called from any worker.
type ProgressTracker interface {
	ResetIteration(iteration int, totalNodes uint64)
	Add(nodes uint64)
}

type noopProgressTracker struct{}

func (noopProgressTracker) ResetIteration(iteration int, totalNodes uint64) {}
func (noopProgressTracker) Add(nodes uint64)                                {}

// LogProgressTracker reports progress through a structured logger.
type LogProgressTracker struct {
	logger    logrus.FieldLogger
	iteration atomic.Int64
	total     uint64
	done      atomic.Uint64
}

func NewLogProgressTracker(logger logrus.FieldLogger) *LogProgressTracker {
	return &LogProgressTracker{logger: logger}
}

func (t *LogProgressTracker) ResetIteration(iteration int, totalNodes uint64) {
	t.iteration.Store(int64(iteration))
	t.total = totalNodes
	t.done.Store(0)

	t.logger.WithFields(logrus.Fields{
		"action":    "pregel_progress",
		"iteration": iteration,
	}).Debug("superstep starting")
}

func (t *LogProgressTracker) Add(nodes uint64) {
	done := t.done.Add(nodes)
	if done >= t.total {
		t.logger.WithFields(logrus.Fields{
			"action":    "pregel_progress",
			"iteration": t.iteration.Load(),
			"nodes":     done,
		}).Debug("all batches of superstep processed")
	}
}
