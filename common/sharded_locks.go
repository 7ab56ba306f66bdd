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

package common

import "sync"

const DefaultShardedLocksCount = 512

// ShardedLocks provides mutual exclusion striped over a fixed number of
// mutexes. Two ids may share a mutex, so the protected sections must be
// short and must never lock a second id.
type ShardedLocks struct {
	shards []sync.Mutex
	count  uint64
}

func NewDefaultShardedLocks() *ShardedLocks {
	return NewShardedLocks(DefaultShardedLocksCount)
}

func NewShardedLocks(count int) *ShardedLocks {
	if count < 1 {
		count = 1
	}

	return &ShardedLocks{
		shards: make([]sync.Mutex, count),
		count:  uint64(count),
	}
}

func (sl *ShardedLocks) Lock(id uint64) {
	sl.shards[id%sl.count].Lock()
}

func (sl *ShardedLocks) Unlock(id uint64) {
	sl.shards[id%sl.count].Unlock()
}

// LockedDo runs fn while holding the lock for id.
func (sl *ShardedLocks) LockedDo(id uint64, fn func()) {
	sl.Lock(id)
	defer sl.Unlock(id)

	fn()
}
