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
	"github.com/weaviate/pregel/common"
)

// messageQueues is one generation of per-node message buffers. Appends to
// the same target from different workers are serialized through sharded
// locks; reads happen on the other generation, after the superstep barrier.
type messageQueues struct {
	values  [][]float64
	senders [][]uint64 // nil unless sender tracking is on
}

func newMessageQueues(nodeCount uint64, trackSender bool) *messageQueues {
	q := &messageQueues{
		values: make([][]float64, nodeCount),
	}
	if trackSender {
		q.senders = make([][]uint64, nodeCount)
	}
	return q
}

func (q *messageQueues) append(source, target uint64, message float64) {
	q.values[target] = append(q.values[target], message)
	if q.senders != nil {
		q.senders[target] = append(q.senders[target], source)
	}
}

// clear empties all queues but keeps their capacity for reuse.
func (q *messageQueues) clear() {
	for i := range q.values {
		q.values[i] = q.values[i][:0]
	}
	if q.senders != nil {
		for i := range q.senders {
			q.senders[i] = q.senders[i][:0]
		}
	}
}

// QueueMessenger is the default synchronous messenger: two generations of
// per-node queues, swapped at InitIteration, so a message only becomes
// visible one superstep after it was sent.
type QueueMessenger struct {
	current *messageQueues
	next    *messageQueues
	locks   *common.ShardedLocks
}

func NewQueueMessenger(nodeCount uint64, trackSender bool) *QueueMessenger {
	return &QueueMessenger{
		current: newMessageQueues(nodeCount, trackSender),
		next:    newMessageQueues(nodeCount, trackSender),
		locks:   common.NewDefaultShardedLocks(),
	}
}

func (m *QueueMessenger) InitIteration(iteration int) {
	m.current, m.next = m.next, m.current
	m.next.clear()
}

func (m *QueueMessenger) SendTo(source, target uint64, message float64) {
	m.locks.Lock(target)
	m.next.append(source, target, message)
	m.locks.Unlock(target)
}

func (m *QueueMessenger) NewMessageIterator() MessageIterator {
	return &queueMessageIterator{}
}

func (m *QueueMessenger) InitMessageIterator(it MessageIterator, nodeID uint64,
	isFirstIteration bool,
) {
	qit := it.(*queueMessageIterator)
	if isFirstIteration {
		qit.init(nil, nil)
		return
	}

	var senders []uint64
	if m.current.senders != nil {
		senders = m.current.senders[nodeID]
	}
	qit.init(m.current.values[nodeID], senders)
}

func (m *QueueMessenger) Release() {
	m.current = nil
	m.next = nil
}

// AsyncQueueMessenger keeps a single queue generation. A reader drains its
// own queue when its iterator is initialized, so messages sent earlier in
// the same superstep may already be observed.
type AsyncQueueMessenger struct {
	queues *messageQueues
	locks  *common.ShardedLocks
}

func NewAsyncQueueMessenger(nodeCount uint64, trackSender bool) *AsyncQueueMessenger {
	return &AsyncQueueMessenger{
		queues: newMessageQueues(nodeCount, trackSender),
		locks:  common.NewDefaultShardedLocks(),
	}
}

func (m *AsyncQueueMessenger) InitIteration(iteration int) {
	// nothing to swap, there is only one generation
}

func (m *AsyncQueueMessenger) SendTo(source, target uint64, message float64) {
	m.locks.Lock(target)
	m.queues.append(source, target, message)
	m.locks.Unlock(target)
}

func (m *AsyncQueueMessenger) NewMessageIterator() MessageIterator {
	return &queueMessageIterator{}
}

func (m *AsyncQueueMessenger) InitMessageIterator(it MessageIterator, nodeID uint64,
	isFirstIteration bool,
) {
	qit := it.(*queueMessageIterator)
	if isFirstIteration {
		qit.init(nil, nil)
		return
	}

	// take ownership of the node's queue so every message is consumed
	// exactly once
	m.locks.Lock(nodeID)
	values := m.queues.values[nodeID]
	m.queues.values[nodeID] = nil
	var senders []uint64
	if m.queues.senders != nil {
		senders = m.queues.senders[nodeID]
		m.queues.senders[nodeID] = nil
	}
	m.locks.Unlock(nodeID)

	qit.init(values, senders)
}

func (m *AsyncQueueMessenger) Release() {
	m.queues = nil
}

type queueMessageIterator struct {
	values  []float64
	senders []uint64
	cursor  int
}

func (it *queueMessageIterator) init(values []float64, senders []uint64) {
	it.values = values
	it.senders = senders
	it.cursor = 0
}

func (it *queueMessageIterator) Next() bool {
	if it.cursor >= len(it.values) {
		return false
	}
	it.cursor++
	return true
}

func (it *queueMessageIterator) Value() float64 {
	return it.values[it.cursor-1]
}

func (it *queueMessageIterator) IsEmpty() bool {
	return len(it.values) == 0
}

func (it *queueMessageIterator) Reset() {
	it.cursor = 0
}

func (it *queueMessageIterator) sender() (uint64, bool) {
	if it.senders == nil || it.cursor == 0 {
		return 0, false
	}
	return it.senders[it.cursor-1], true
}
