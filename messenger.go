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

// Messenger moves messages between supersteps. A message sent during
// superstep k becomes visible during superstep k+1, never during k; the only
// exception is the asynchronous messenger, where same-superstep delivery is
// allowed.
//
// SendTo may be called concurrently from any worker. InitIteration and
// Release happen between supersteps, never concurrently with sends.
type Messenger interface {
	// InitIteration must be called exactly once per superstep, before any
	// SendTo of that superstep. It makes the previous superstep's
	// messages readable and prepares empty buffers for new ones.
	InitIteration(iteration int)

	// SendTo appends message for target to the buffers of the next
	// superstep. Never blocks on readers.
	SendTo(source, target uint64, message float64)

	// NewMessageIterator returns a reusable iterator. Iterators are not
	// safe for concurrent use; each compute-step leaf owns one.
	NewMessageIterator() MessageIterator

	// InitMessageIterator points it at the current-generation messages of
	// nodeID. With isFirstIteration the sequence is always empty, no
	// messages exist before the first superstep.
	InitMessageIterator(it MessageIterator, nodeID uint64, isFirstIteration bool)

	// Release drops all buffered state. The messenger is unusable
	// afterwards.
	Release()
}

// MessageIterator is a restartable, finite sequence of float64 messages
// addressed to one node.
type MessageIterator interface {
	// Next advances to the next message, false when exhausted.
	Next() bool
	// Value returns the message at the current position.
	Value() float64
	// IsEmpty reports whether the sequence has no messages at all,
	// independent of the cursor.
	IsEmpty() bool
	// Reset rewinds the cursor to the start of the sequence.
	Reset()

	// sender returns the source of the message at the current position,
	// false unless sender tracking is configured.
	sender() (uint64, bool)
}

// Messages is the per-node view handed to a compute function. It forwards
// iteration to the underlying MessageIterator.
type Messages struct {
	it MessageIterator
}

// EmptyMessages models "no messenger traffic". It is what a compute function
// sees in the first superstep and is handy for unit-testing compute
// functions without an engine.
var EmptyMessages = &Messages{it: emptyIterator{}}

func (m *Messages) Next() bool {
	return m.it.Next()
}

func (m *Messages) Value() float64 {
	return m.it.Value()
}

func (m *Messages) IsEmpty() bool {
	return m.it.IsEmpty()
}

// Sender returns the tracked source of the current message. The second
// return is false unless sender tracking was enabled at configuration time.
// Under a reducer the reported sender belongs to whichever message the
// reducer retained.
func (m *Messages) Sender() (uint64, bool) {
	return m.it.sender()
}

func (m *Messages) reset(it MessageIterator) {
	m.it = it
}

type emptyIterator struct{}

func (emptyIterator) Next() bool             { return false }
func (emptyIterator) Value() float64         { return 0 }
func (emptyIterator) IsEmpty() bool          { return true }
func (emptyIterator) Reset()                 {}
func (emptyIterator) sender() (uint64, bool) { return 0, false }
