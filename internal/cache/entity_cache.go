// Package cache provides the LRU cache for inspected entity mappings.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

const (
	// DefaultCapacity is the default maximum number of cached entries.
	DefaultCapacity = 512
)

// LRU stores values with a least-recently-used eviction policy.
// It is safe for concurrent use; it is the only structure shared between sessions.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	lruList  *list.List

	// Metrics using atomic for lock-free access.
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// entry represents a single cached value.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a new cache with default capacity.
func New[K comparable, V any]() *LRU[K, V] {
	return NewWithCapacity[K, V](DefaultCapacity)
}

// NewWithCapacity creates a new cache with specified capacity.
func NewWithCapacity[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		lruList:  list.New(),
	}
}

// Get retrieves a value by key.
// Accessing a value moves it to the front of the LRU list.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		c.misses.Add(1)
		var zero V
		return zero, false
	}

	c.lruList.MoveToFront(elem)
	c.hits.Add(1)

	return elem.Value.(*entry[K, V]).value, true
}

// Set stores a value, evicting the least recently used entry at capacity.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.lruList.MoveToFront(elem)
		elem.Value.(*entry[K, V]).value = value
		return
	}

	if c.lruList.Len() >= c.capacity {
		c.evictOldest()
	}

	elem := c.lruList.PushFront(&entry[K, V]{key: key, value: value})
	c.items[key] = elem
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Errors from load are returned and nothing is cached.
func (c *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (c *LRU[K, V]) evictOldest() {
	elem := c.lruList.Back()
	if elem == nil {
		return
	}

	c.lruList.Remove(elem)
	delete(c.items, elem.Value.(*entry[K, V]).key)
	c.evictions.Add(1)
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element, c.capacity)
	c.lruList.Init()
}

// Stats holds cache performance metrics.
type Stats struct {
	Size      int     // Current number of cached entries.
	Capacity  int     // Maximum capacity.
	Hits      uint64  // Number of successful lookups.
	Misses    uint64  // Number of misses.
	Evictions uint64  // Number of evicted entries.
	HitRate   float64 // Hit rate (hits / total requests).
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	size := c.lruList.Len()
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:      size,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}
