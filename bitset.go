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
	"math/bits"
	"sync/atomic"
)

// atomicBitset is a dense bitset with atomic per-bit mutation. Concurrent
// writers of a superstep touch disjoint bits, but those bits share words, so
// plain stores are not enough.
type atomicBitset struct {
	words []uint64
	size  uint64
}

func newAtomicBitset(size uint64) *atomicBitset {
	return &atomicBitset{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

func (b *atomicBitset) Set(i uint64) {
	word, mask := &b.words[i>>6], uint64(1)<<(i&63)
	for {
		old := atomic.LoadUint64(word)
		if old&mask != 0 {
			return
		}
		if atomic.CompareAndSwapUint64(word, old, old|mask) {
			return
		}
	}
}

func (b *atomicBitset) Clear(i uint64) {
	word, mask := &b.words[i>>6], uint64(1)<<(i&63)
	for {
		old := atomic.LoadUint64(word)
		if old&mask == 0 {
			return
		}
		if atomic.CompareAndSwapUint64(word, old, old&^mask) {
			return
		}
	}
}

func (b *atomicBitset) Test(i uint64) bool {
	return atomic.LoadUint64(&b.words[i>>6])&(uint64(1)<<(i&63)) != 0
}

func (b *atomicBitset) ClearAll() {
	for i := range b.words {
		atomic.StoreUint64(&b.words[i], 0)
	}
}

// Count is only meaningful after a superstep barrier, when no writers are
// active.
func (b *atomicBitset) Count() uint64 {
	var count uint64
	for i := range b.words {
		count += uint64(bits.OnesCount64(atomic.LoadUint64(&b.words[i])))
	}
	return count
}

func (b *atomicBitset) AllSet() bool {
	return b.Count() == b.size
}
