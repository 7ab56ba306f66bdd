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
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	enterrors "github.com/weaviate/pregel/entities/errors"
	"github.com/weaviate/pregel/graph"
)

// sequentialThreshold is the partition size below which a compute step stops
// splitting and processes its nodes on the current goroutine.
const sequentialThreshold = 1000

// computeStep recursively processes one partition of a superstep: either it
// splits the partition and runs both halves concurrently, or it executes
// every node sequentially. All steps of one superstep share the same error
// group, whose Wait forms the superstep barrier.
type computeStep struct {
	ctx context.Context
	eg  *enterrors.ErrorGroupWrapper

	init    InitFunc
	compute ComputeFunc

	graph     graph.Graph
	values    *NodeValues
	config    UserConfig
	voteBits  *atomicBitset
	messenger Messenger
	progress  ProgressTracker
	metrics   *Metrics
	sentFlag  *atomic.Bool
	superstep int
}

func (s *computeStep) run(p Partition) error {
	// cancellation is polled at partition granularity, not per node
	if err := s.ctx.Err(); err != nil {
		return err
	}

	if p.NodeCount >= sequentialThreshold {
		left, right := p.split()

		if s.eg.TryGo(func() error {
			return s.run(left)
		}) {
			return s.run(right)
		}

		// all workers busy, keep both halves on this goroutine
		if err := s.run(left); err != nil {
			return err
		}
		return s.run(right)
	}

	return s.runSequential(p)
}

func (s *computeStep) runSequential(p Partition) error {
	isFirst := s.superstep == 0
	it := s.messenger.NewMessageIterator()
	messages := &Messages{}

	base := nodeContext{
		graph:  s.graph,
		values: s.values,
		config: s.config,
	}
	initCtx := &InitContext{nodeContext: base}
	computeCtx := &ComputeContext{
		nodeContext: base,
		superstep:   s.superstep,
		voteBits:    s.voteBits,
		messenger:   s.messenger,
		sentFlag:    s.sentFlag,
	}

	end := p.StartNode + p.NodeCount
	for nodeID := p.StartNode; nodeID < end; nodeID++ {
		if isFirst && s.init != nil {
			initCtx.setNodeID(nodeID)
			if err := s.init(initCtx); err != nil {
				return errors.Wrapf(err, "init node %d", nodeID)
			}
		}

		s.messenger.InitMessageIterator(it, nodeID, isFirst)

		// a node participates if it has messages or has not voted to
		// halt; a message reactivates a halted node
		halted := s.voteBits.Test(nodeID)
		if halted {
			if it.IsEmpty() {
				continue
			}
			s.voteBits.Clear(nodeID)
		}

		computeCtx.setNodeID(nodeID)
		messages.reset(it)
		if err := s.compute(computeCtx, messages); err != nil {
			return errors.Wrapf(err, "compute node %d", nodeID)
		}
	}

	// one progress report for the whole batch
	s.progress.Add(p.NodeCount)
	s.metrics.AddSentMessages(computeCtx.sentCount)

	return nil
}
