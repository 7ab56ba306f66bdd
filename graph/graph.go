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

package graph

import "github.com/pkg/errors"

// Graph is the read-only topology a computation runs on. Node ids are dense
// in [0, NodeCount). Implementations must be safe for concurrent reads.
type Graph interface {
	NodeCount() uint64
	RelationshipCount() uint64
	Degree(nodeID uint64) int
	// ForEachNeighbor calls fn for every out-neighbor of nodeID until fn
	// returns false.
	ForEachNeighbor(nodeID uint64, fn func(target uint64) bool)
}

// CSR is an immutable compressed-sparse-row adjacency list.
type CSR struct {
	offsets []uint64
	targets []uint64
}

// NodeCount implements Graph.
func (g *CSR) NodeCount() uint64 {
	return uint64(len(g.offsets) - 1)
}

// RelationshipCount implements Graph.
func (g *CSR) RelationshipCount() uint64 {
	return uint64(len(g.targets))
}

// Degree implements Graph.
func (g *CSR) Degree(nodeID uint64) int {
	return int(g.offsets[nodeID+1] - g.offsets[nodeID])
}

// ForEachNeighbor implements Graph.
func (g *CSR) ForEachNeighbor(nodeID uint64, fn func(target uint64) bool) {
	for _, target := range g.targets[g.offsets[nodeID]:g.offsets[nodeID+1]] {
		if !fn(target) {
			return
		}
	}
}

// Builder accumulates directed relationships and flattens them into a CSR.
type Builder struct {
	nodeCount uint64
	adjacency [][]uint64
	err       error
}

func NewBuilder(nodeCount uint64) *Builder {
	return &Builder{
		nodeCount: nodeCount,
		adjacency: make([][]uint64, nodeCount),
	}
}

// AddRelationship records a directed source->target relationship. Parallel
// relationships are kept as-is.
func (b *Builder) AddRelationship(source, target uint64) *Builder {
	if source >= b.nodeCount || target >= b.nodeCount {
		if b.err == nil {
			b.err = errors.Errorf(
				"relationship %d->%d out of node range [0, %d)",
				source, target, b.nodeCount)
		}
		return b
	}

	b.adjacency[source] = append(b.adjacency[source], target)
	return b
}

func (b *Builder) Build() (*CSR, error) {
	if b.err != nil {
		return nil, b.err
	}

	offsets := make([]uint64, b.nodeCount+1)
	var total uint64
	for i, neighbors := range b.adjacency {
		offsets[i] = total
		total += uint64(len(neighbors))
	}
	offsets[b.nodeCount] = total

	targets := make([]uint64, 0, total)
	for _, neighbors := range b.adjacency {
		targets = append(targets, neighbors...)
	}

	return &CSR{offsets: offsets, targets: targets}, nil
}
