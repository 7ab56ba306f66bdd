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

// Package pregel implements a vertex-centric bulk-synchronous-parallel
// computation engine on a single process. A run alternates supersteps: a
// message-buffer swap, a parallel compute phase over all nodes and a global
// barrier. It ends when every node voted to halt and no message is in
// flight, or when the iteration limit is reached.
package pregel

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	enterrors "github.com/weaviate/pregel/entities/errors"
	"github.com/weaviate/pregel/graph"
)

type Pregel struct {
	id     string
	graph  graph.Graph
	config UserConfig

	init    InitFunc
	compute ComputeFunc

	values    *NodeValues
	voteBits  *atomicBitset
	messenger Messenger

	partitions []Partition

	logger   logrus.FieldLogger
	metrics  *Metrics
	progress ProgressTracker

	// for the liveness log only, the superstep loop itself is
	// single-threaded
	currentIteration atomic.Int64
}

// New validates both config parts and prepares a single run: it allocates
// the value store and vote bits, picks the messenger implementation and
// fixes the partitioning. A Pregel instance is good for one Run.
func New(cfg Config, uc UserConfig) (*Pregel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if err := uc.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid user config")
	}

	if cfg.Logger == nil {
		logger := logrus.New()
		logger.Out = io.Discard
		cfg.Logger = logger
	}

	if cfg.ID == "" {
		cfg.ID = "pregel"
	}

	if cfg.Progress == nil {
		cfg.Progress = noopProgressTracker{}
	}

	nodeCount := cfg.Graph.NodeCount()

	p := &Pregel{
		id:         cfg.ID,
		graph:      cfg.Graph,
		config:     uc,
		init:       cfg.Init,
		compute:    cfg.Compute,
		values:     NewNodeValues(cfg.Schema, nodeCount),
		voteBits:   newAtomicBitset(nodeCount),
		messenger:  newMessenger(nodeCount, cfg.Reducer, uc),
		partitions: planPartitions(cfg.Graph, uc),
		logger:     cfg.Logger,
		metrics:    NewMetrics(cfg.PrometheusMetrics, cfg.ID),
		progress:   cfg.Progress,
	}

	return p, nil
}

func newMessenger(nodeCount uint64, reducer Reducer, uc UserConfig) Messenger {
	if reducer != nil {
		return NewReducingMessenger(nodeCount, reducer, uc.TrackSender)
	}

	if uc.IsAsynchronous {
		return NewAsyncQueueMessenger(nodeCount, uc.TrackSender)
	}

	return NewQueueMessenger(nodeCount, uc.TrackSender)
}

// planPartitions enumerates the root partitions once per run. Range and
// Degree produce static slices; Auto hands the whole node range to the
// fork-join splitter.
func planPartitions(g graph.Graph, uc UserConfig) []Partition {
	switch uc.Partitioning {
	case PartitioningDegree:
		return degreePartitions(g, uc.Concurrency)
	case PartitioningAuto:
		if g.NodeCount() == 0 {
			return nil
		}
		return []Partition{{StartNode: 0, NodeCount: g.NodeCount()}}
	default:
		return rangePartitions(g.NodeCount(), uc.Concurrency)
	}
}

// Run executes supersteps until convergence, the iteration limit or context
// cancellation. A user-callback error aborts the run and yields no result.
func (p *Pregel) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	p.metrics.StartRun()
	defer p.metrics.EndRun(start)

	stopLiveness := make(chan struct{})
	defer close(stopLiveness)
	p.livenessLogger(stopLiveness)

	nodeCount := p.graph.NodeCount()
	p.voteBits.ClearAll()

	var sentFlag atomic.Bool
	ranIterations := 0
	reason := ReasonIterationLimitReached

	for iteration := 0; iteration < p.config.MaxIterations; iteration++ {
		if ctx.Err() != nil {
			reason = ReasonTerminated
			break
		}

		p.currentIteration.Store(int64(iteration))
		p.messenger.InitIteration(iteration)
		sentFlag.Store(false)
		p.progress.ResetIteration(iteration, nodeCount)

		eg := enterrors.NewErrorGroupWrapper(p.logger)
		eg.SetLimit(p.config.Concurrency)

		step := &computeStep{
			ctx:       ctx,
			eg:        eg,
			init:      p.init,
			compute:   p.compute,
			graph:     p.graph,
			values:    p.values,
			config:    p.config,
			voteBits:  p.voteBits,
			messenger: p.messenger,
			progress:  p.progress,
			metrics:   p.metrics,
			sentFlag:  &sentFlag,
			superstep: iteration,
		}

		for _, partition := range p.partitions {
			partition := partition
			eg.Go(func() error {
				return step.run(partition)
			})
		}

		// the barrier: no state below is read before every step of this
		// superstep has completed
		if err := eg.Wait(); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				reason = ReasonTerminated
				break
			}
			return nil, errors.Wrapf(err, "pregel %q: superstep %d", p.id, iteration)
		}

		ranIterations = iteration + 1
		halted := p.voteBits.Count()
		p.metrics.IterationCompleted()
		p.metrics.SetActiveNodes(nodeCount - halted)

		p.logger.WithFields(logrus.Fields{
			"action":       "pregel_superstep",
			"pregel_id":    p.id,
			"iteration":    iteration,
			"active_nodes": nodeCount - halted,
			"sent":         sentFlag.Load(),
		}).Debug("superstep complete")

		if !sentFlag.Load() && halted == nodeCount {
			reason = ReasonConverged
			break
		}
	}

	p.logger.WithFields(logrus.Fields{
		"action":     "pregel_run",
		"pregel_id":  p.id,
		"iterations": ranIterations,
		"reason":     reason.String(),
		"took":       time.Since(start),
	}).Info("computation finished")

	return &Result{
		NodeValues: p.values,
		Iterations: ranIterations,
		Reason:     reason,
	}, nil
}

// Release drops the messenger's buffered state. The instance is unusable
// afterwards; the value store of a previously returned Result stays valid.
func (p *Pregel) Release() {
	p.messenger.Release()
}

// livenessLogger periodically reports that a long run is still making
// progress.
func (p *Pregel) livenessLogger(stop <-chan struct{}) {
	enterrors.GoWrapper(func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.logger.WithFields(logrus.Fields{
					"action":    "pregel_liveness",
					"pregel_id": p.id,
					"iteration": p.currentIteration.Load(),
				}).Debug("computation still running")
			}
		}
	}, p.logger)
}
