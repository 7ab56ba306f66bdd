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
)

func TestAtomicBitset(t *testing.T) {
	t.Run("set, test, clear", func(t *testing.T) {
		b := newAtomicBitset(130)

		assert.False(t, b.Test(129))
		b.Set(129)
		assert.True(t, b.Test(129))
		assert.Equal(t, uint64(1), b.Count())

		b.Clear(129)
		assert.False(t, b.Test(129))
		assert.Equal(t, uint64(0), b.Count())
	})

	t.Run("all set", func(t *testing.T) {
		b := newAtomicBitset(70)
		for i := uint64(0); i < 70; i++ {
			b.Set(i)
		}
		assert.True(t, b.AllSet())

		b.Clear(33)
		assert.False(t, b.AllSet())

		b.ClearAll()
		assert.Equal(t, uint64(0), b.Count())
	})

	t.Run("disjoint concurrent writers sharing words", func(t *testing.T) {
		const size = 64 * 64
		b := newAtomicBitset(size)

		var wg sync.WaitGroup
		for worker := 0; worker < 8; worker++ {
			wg.Add(1)
			go func(offset uint64) {
				defer wg.Done()
				// stride over all words so every worker hits every word
				for i := offset; i < size; i += 8 {
					b.Set(i)
				}
			}(uint64(worker))
		}
		wg.Wait()

		assert.True(t, b.AllSet())
	})
}
