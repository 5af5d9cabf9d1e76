// Package cache provides a small generic LRU cache.
//
// Thread safety: Cache is safe for concurrent use and must not be copied
// after creation.
package cache

import "sync"

// Cache is a thread-safe LRU cache holding at most capacity entries.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	index    map[K]*entry[K, V]
	order    ring[K, V]
	capacity int
}

// New creates a cache. A capacity below 1 is treated as 1.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	c := &Cache[K, V]{
		index:    make(map[K]*entry[K, V]),
		capacity: max(capacity, 1),
	}
	c.order.init()
	return c
}

// Get retrieves a value and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.touch(e)
	return e.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.index[key]; ok {
		e.value = value
		c.order.touch(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.index[key] = e
	c.order.pushFront(e)
	for len(c.index) > c.capacity {
		oldest := c.order.popBack()
		if oldest == nil {
			break
		}
		delete(c.index, oldest.key)
	}
}

// Delete removes an entry. Returns true if it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.index[key]
	if !ok {
		return false
	}
	c.order.unlink(e)
	delete(c.index, key)
	return true
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index = make(map[K]*entry[K, V])
	c.order.init()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}
