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
	"math"
	"sync/atomic"
)

// ReducingMessenger folds every message addressed to a node into a single
// value while it is being sent, instead of queueing. Per node and generation
// it keeps one float64 slot, initialized to the reducer's identity, plus an
// occupancy bit. Folding is lock-free via CAS on the slot's bit pattern,
// which requires the reducer to be commutative and associative.
type ReducingMessenger struct {
	current *reducedFrame
	next    *reducedFrame
	reducer Reducer
}

type reducedFrame struct {
	values      []uint64 // float64 bit patterns, mutated atomically
	hasMessage  *atomicBitset
	senders     []uint64 // last-writer-wins, nil unless tracking
	identityBit uint64
}

func newReducedFrame(nodeCount uint64, identity float64, trackSender bool) *reducedFrame {
	f := &reducedFrame{
		values:      make([]uint64, nodeCount),
		hasMessage:  newAtomicBitset(nodeCount),
		identityBit: math.Float64bits(identity),
	}
	if trackSender {
		f.senders = make([]uint64, nodeCount)
	}
	f.reset()
	return f
}

func (f *reducedFrame) reset() {
	for i := range f.values {
		f.values[i] = f.identityBit
	}
	f.hasMessage.ClearAll()
}

func NewReducingMessenger(nodeCount uint64, reducer Reducer, trackSender bool) *ReducingMessenger {
	return &ReducingMessenger{
		current: newReducedFrame(nodeCount, reducer.Identity(), trackSender),
		next:    newReducedFrame(nodeCount, reducer.Identity(), trackSender),
		reducer: reducer,
	}
}

func (m *ReducingMessenger) InitIteration(iteration int) {
	m.current, m.next = m.next, m.current
	m.next.reset()
}

func (m *ReducingMessenger) SendTo(source, target uint64, message float64) {
	slot := &m.next.values[target]
	for {
		old := atomic.LoadUint64(slot)
		folded := m.reducer.Reduce(math.Float64frombits(old), message)
		if atomic.CompareAndSwapUint64(slot, old, math.Float64bits(folded)) {
			break
		}
	}

	m.next.hasMessage.Set(target)

	if m.next.senders != nil {
		// which sender the reducer "retains" is reducer-defined; last
		// writer wins here
		atomic.StoreUint64(&m.next.senders[target], source)
	}
}

func (m *ReducingMessenger) NewMessageIterator() MessageIterator {
	return &reducedMessageIterator{}
}

func (m *ReducingMessenger) InitMessageIterator(it MessageIterator, nodeID uint64,
	isFirstIteration bool,
) {
	rit := it.(*reducedMessageIterator)
	if isFirstIteration || !m.current.hasMessage.Test(nodeID) {
		rit.init(0, 0, true, false)
		return
	}

	var sender uint64
	hasSender := m.current.senders != nil
	if hasSender {
		sender = m.current.senders[nodeID]
	}
	rit.init(math.Float64frombits(m.current.values[nodeID]), sender, false, hasSender)
}

func (m *ReducingMessenger) Release() {
	m.current = nil
	m.next = nil
}

// reducedMessageIterator yields at most one value.
type reducedMessageIterator struct {
	value     float64
	source    uint64
	empty     bool
	hasSender bool
	consumed  bool
}

func (it *reducedMessageIterator) init(value float64, source uint64, empty, hasSender bool) {
	it.value = value
	it.source = source
	it.empty = empty
	it.hasSender = hasSender
	it.consumed = false
}

func (it *reducedMessageIterator) Next() bool {
	if it.empty || it.consumed {
		return false
	}
	it.consumed = true
	return true
}

func (it *reducedMessageIterator) Value() float64 {
	return it.value
}

func (it *reducedMessageIterator) IsEmpty() bool {
	return it.empty
}

func (it *reducedMessageIterator) Reset() {
	it.consumed = false
}

func (it *reducedMessageIterator) sender() (uint64, bool) {
	if it.empty || !it.hasSender {
		return 0, false
	}
	return it.source, true
}
