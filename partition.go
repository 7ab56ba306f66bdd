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

import "github.com/weaviate/pregel/graph"

// Partition is a contiguous slice of node ids forming one unit of
// schedulable work. It is a read-only descriptor, re-created on every split.
type Partition struct {
	StartNode uint64
	NodeCount uint64
}

// split halves the partition at its midpoint. With an odd count the first
// half is one larger. The halves are contiguous, disjoint and sum exactly to
// the parent.
func (p Partition) split() (Partition, Partition) {
	leftCount := (p.NodeCount + 1) / 2

	left := Partition{StartNode: p.StartNode, NodeCount: leftCount}
	right := Partition{
		StartNode: p.StartNode + leftCount,
		NodeCount: p.NodeCount - leftCount,
	}
	return left, right
}

// rangePartitions cuts [0, nodeCount) into roughly nodeCount/concurrency
// sized contiguous slices. Lowest overhead, assumes uniform per-node work.
func rangePartitions(nodeCount uint64, concurrency int) []Partition {
	if nodeCount == 0 {
		return nil
	}

	batchSize := nodeCount / uint64(concurrency)
	if nodeCount%uint64(concurrency) != 0 {
		batchSize++
	}

	partitions := make([]Partition, 0, concurrency)
	for start := uint64(0); start < nodeCount; start += batchSize {
		count := batchSize
		if start+count > nodeCount {
			count = nodeCount - start
		}
		partitions = append(partitions, Partition{StartNode: start, NodeCount: count})
	}
	return partitions
}

// degreePartitions cuts [0, nodeCount) so that the cumulative degree of each
// slice is roughly equal, which balances work on skewed graphs. Every node
// counts as its degree plus one so that sparse regions still fill
// partitions.
func degreePartitions(g graph.Graph, concurrency int) []Partition {
	nodeCount := g.NodeCount()
	if nodeCount == 0 {
		return nil
	}

	totalLoad := g.RelationshipCount() + nodeCount
	targetLoad := totalLoad / uint64(concurrency)
	if totalLoad%uint64(concurrency) != 0 {
		targetLoad++
	}

	partitions := make([]Partition, 0, concurrency)
	var start, load uint64
	for id := uint64(0); id < nodeCount; id++ {
		load += uint64(g.Degree(id)) + 1
		if load >= targetLoad {
			partitions = append(partitions, Partition{
				StartNode: start,
				NodeCount: id - start + 1,
			})
			start = id + 1
			load = 0
		}
	}

	if start < nodeCount {
		partitions = append(partitions, Partition{
			StartNode: start,
			NodeCount: nodeCount - start,
		})
	}
	return partitions
}
