package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint32
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates a new sharded map with the default shard count.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a new sharded map. shardCount must be a power of
// 2; other values fall back to DefaultShardCount.
func NewWithShards[V any](shardCount int) *Map[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint32(shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) getShard(key string) *shard[V] {
	return m.shards[murmur3.Sum32([]byte(key))&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

// Set stores a key-value pair.
func (m *Map[V]) Set(key string, value V) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Delete removes a key.
func (m *Map[V]) Delete(key string) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// GetOrCreate returns the value for key, creating it with create when
// absent. loaded reports whether the value already existed. create runs
// under the shard lock.
func (m *Map[V]) GetOrCreate(key string, create func() V) (value V, loaded bool) {
	s := m.getShard(key)

	s.mu.RLock()
	value, loaded = s.items[key]
	s.mu.RUnlock()
	if loaded {
		return value, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if value, loaded = s.items[key]; loaded {
		return value, true
	}
	value = create()
	s.items[key] = value
	return value, false
}

// Count returns the total number of items.
func (m *Map[V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Range calls fn for every entry until fn returns false. Shards are
// locked one at a time, so the view may not be consistent.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// DeleteIf removes every entry for which fn returns true and returns the
// number removed.
func (m *Map[V]) DeleteIf(fn func(key string, value V) bool) int {
	removed := 0
	for _, s := range m.shards {
		s.mu.Lock()
		for k, v := range s.items {
			if fn(k, v) {
				delete(s.items, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}
