// Package cmap provides a concurrent-safe sharded map keyed by string.
//
// Sharding reduces lock contention between unrelated keys while the
// per-shard mutex gives callers an atomic read-modify-write primitive
// (Update) for a single key. Keys on different shards never contend.
package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 32

// Map is a concurrent-safe sharded map with string keys.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint32
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates a sharded map with the default shard count.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a sharded map with the given shard count,
// rounded down to the nearest power of two.
func NewWithShards[V any](count int) *Map[V] {
	if count <= 0 || count&(count-1) != 0 {
		count = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], count),
		shardMask: uint32(count - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardFor(key string) *shard[V] {
	return m.shards[murmur3.Sum32([]byte(key))&m.shardMask]
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a key-value pair.
func (m *Map[V]) Set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// SetIfAbsent stores a value only when the key is not present.
// Returns true if the value was stored.
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	return true
}

// Has reports whether the key is present.
func (m *Map[V]) Has(key string) bool {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[key]
	return ok
}

// Delete removes a key.
func (m *Map[V]) Delete(key string) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Pop removes a key and returns its previous value.
func (m *Map[V]) Pop(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return v, ok
}

// Update runs fn for the key while holding the shard's write lock.
// fn receives the current value (and whether it exists) and returns the
// value to store. If fn returns an error, nothing is stored and the error
// is returned.
//
// This is the map's atomic read-modify-write primitive: two concurrent
// Update calls for the same key are fully serialized, and each one observes
// the state the previous one left behind. fn must not call back into the
// map for keys on an unknown shard, and should stay short: it runs under
// the shard lock and blocks every key on that shard.
func (m *Map[V]) Update(key string, fn func(current V, exists bool) (V, error)) (V, error) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.items[key]
	next, err := fn(current, exists)
	if err != nil {
		var zero V
		return zero, err
	}
	s.items[key] = next
	return next, nil
}

// Count returns the total number of entries across all shards.
func (m *Map[V]) Count() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Range iterates over all entries. Return false from fn to stop.
// The iteration order is unspecified, and entries added or removed during
// iteration may or may not be visited.
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

// Clear removes all entries.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]V)
		s.mu.Unlock()
	}
}
