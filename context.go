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

	"github.com/weaviate/pregel/graph"
)

// nodeContext is the node-scoped view of the run shared by the init and
// compute contexts. One context exists per compute-step leaf and is
// re-targeted from node to node, so user callbacks never cause per-node
// allocations. Value accessors operate on the context's own row only, which
// is what keeps concurrent writes disjoint.
type nodeContext struct {
	graph  graph.Graph
	values *NodeValues
	config UserConfig
	nodeID uint64
}

func (c *nodeContext) setNodeID(nodeID uint64) {
	c.nodeID = nodeID
}

func (c *nodeContext) NodeID() uint64 {
	return c.nodeID
}

func (c *nodeContext) NodeCount() uint64 {
	return c.graph.NodeCount()
}

func (c *nodeContext) Degree() int {
	return c.graph.Degree(c.nodeID)
}

func (c *nodeContext) ForEachNeighbor(fn func(target uint64) bool) {
	c.graph.ForEachNeighbor(c.nodeID, fn)
}

// Config exposes the user-settable knobs, e.g. the tolerance, which the
// engine itself never interprets.
func (c *nodeContext) Config() UserConfig {
	return c.config
}

func (c *nodeContext) LongValue(key string) (int64, error) {
	return c.values.LongValue(key, c.nodeID)
}

func (c *nodeContext) SetLongValue(key string, value int64) error {
	return c.values.SetLongValue(key, c.nodeID, value)
}

func (c *nodeContext) DoubleValue(key string) (float64, error) {
	return c.values.DoubleValue(key, c.nodeID)
}

func (c *nodeContext) SetDoubleValue(key string, value float64) error {
	return c.values.SetDoubleValue(key, c.nodeID, value)
}

func (c *nodeContext) LongArrayValue(key string) ([]int64, error) {
	return c.values.LongArrayValue(key, c.nodeID)
}

func (c *nodeContext) SetLongArrayValue(key string, value []int64) error {
	return c.values.SetLongArrayValue(key, c.nodeID, value)
}

func (c *nodeContext) DoubleArrayValue(key string) ([]float64, error) {
	return c.values.DoubleArrayValue(key, c.nodeID)
}

func (c *nodeContext) SetDoubleArrayValue(key string, value []float64) error {
	return c.values.SetDoubleArrayValue(key, c.nodeID, value)
}

// InitContext is handed to the init function in the first superstep.
type InitContext struct {
	nodeContext
}

// ComputeContext is handed to the compute function for every participating
// node.
type ComputeContext struct {
	nodeContext

	superstep int
	voteBits  *atomicBitset
	messenger Messenger
	sentFlag  *atomic.Bool
	sentCount int64
}

func (c *ComputeContext) Superstep() int {
	return c.superstep
}

func (c *ComputeContext) IsInitialSuperstep() bool {
	return c.superstep == 0
}

// VoteToHalt declares that this node has no further work. The vote is
// reversed by any incoming message.
func (c *ComputeContext) VoteToHalt() {
	c.voteBits.Set(c.nodeID)
}

// SendTo queues message for target. It becomes visible in the next
// superstep (or the current one under the asynchronous messenger).
func (c *ComputeContext) SendTo(target uint64, message float64) {
	c.messenger.SendTo(c.nodeID, target, message)
	c.sentCount++

	if !c.sentFlag.Load() {
		c.sentFlag.Store(true)
	}
}

// SendToNeighbors sends message to every out-neighbor of this node.
func (c *ComputeContext) SendToNeighbors(message float64) {
	c.graph.ForEachNeighbor(c.nodeID, func(target uint64) bool {
		c.SendTo(target, message)
		return true
	})
}
