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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, m Messenger, nodeID uint64, isFirst bool) []float64 {
	t.Helper()

	it := m.NewMessageIterator()
	m.InitMessageIterator(it, nodeID, isFirst)

	var out []float64
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

func TestQueueMessenger(t *testing.T) {
	t.Run("messages are delayed exactly one iteration", func(t *testing.T) {
		m := NewQueueMessenger(4, false)

		m.InitIteration(0)
		m.SendTo(0, 1, 42)

		// still iteration 0: nothing visible
		assert.Empty(t, drain(t, m, 1, false))

		m.InitIteration(1)
		assert.Equal(t, []float64{42}, drain(t, m, 1, false))

		// one iteration later the message is gone again
		m.InitIteration(2)
		assert.Empty(t, drain(t, m, 1, false))
	})

	t.Run("first iteration is always empty", func(t *testing.T) {
		m := NewQueueMessenger(4, false)
		m.InitIteration(0)
		assert.Empty(t, drain(t, m, 1, true))
	})

	t.Run("iterator is restartable", func(t *testing.T) {
		m := NewQueueMessenger(2, false)
		m.InitIteration(0)
		m.SendTo(0, 1, 1)
		m.SendTo(0, 1, 2)
		m.InitIteration(1)

		it := m.NewMessageIterator()
		m.InitMessageIterator(it, 1, false)
		require.False(t, it.IsEmpty())

		var first []float64
		for it.Next() {
			first = append(first, it.Value())
		}

		it.Reset()
		var second []float64
		for it.Next() {
			second = append(second, it.Value())
		}

		assert.Equal(t, first, second)
	})

	t.Run("concurrent sends to one target all arrive", func(t *testing.T) {
		m := NewQueueMessenger(8, false)
		m.InitIteration(0)

		var wg sync.WaitGroup
		for worker := 0; worker < 16; worker++ {
			wg.Add(1)
			go func(source uint64) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					m.SendTo(source, 5, 1)
				}
			}(uint64(worker))
		}
		wg.Wait()

		m.InitIteration(1)
		assert.Len(t, drain(t, m, 5, false), 16*100)
	})

	t.Run("sender tracking", func(t *testing.T) {
		m := NewQueueMessenger(4, true)
		m.InitIteration(0)
		m.SendTo(2, 1, 10)
		m.SendTo(3, 1, 20)
		m.InitIteration(1)

		it := m.NewMessageIterator()
		m.InitMessageIterator(it, 1, false)

		senders := map[float64]uint64{}
		for it.Next() {
			source, ok := it.sender()
			require.True(t, ok)
			senders[it.Value()] = source
		}

		assert.Equal(t, map[float64]uint64{10: 2, 20: 3}, senders)
	})

	t.Run("no sender without tracking", func(t *testing.T) {
		m := NewQueueMessenger(4, false)
		m.InitIteration(0)
		m.SendTo(2, 1, 10)
		m.InitIteration(1)

		it := m.NewMessageIterator()
		m.InitMessageIterator(it, 1, false)
		require.True(t, it.Next())

		_, ok := it.sender()
		assert.False(t, ok)
	})
}

func TestAsyncQueueMessenger(t *testing.T) {
	t.Run("messages are visible within the same iteration", func(t *testing.T) {
		m := NewAsyncQueueMessenger(4, false)

		m.InitIteration(0)
		m.SendTo(0, 1, 42)
		assert.Equal(t, []float64{42}, drain(t, m, 1, false))
	})

	t.Run("a drained queue stays drained", func(t *testing.T) {
		m := NewAsyncQueueMessenger(4, false)

		m.InitIteration(0)
		m.SendTo(0, 1, 42)
		require.Equal(t, []float64{42}, drain(t, m, 1, false))

		m.InitIteration(1)
		assert.Empty(t, drain(t, m, 1, false))
	})

	t.Run("undrained messages survive into later iterations", func(t *testing.T) {
		m := NewAsyncQueueMessenger(4, false)

		m.InitIteration(0)
		m.SendTo(0, 1, 42)
		m.InitIteration(1)
		assert.Equal(t, []float64{42}, drain(t, m, 1, false))
	})
}
