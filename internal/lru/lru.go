// Package lru provides a size-bounded least-recently-used cache.
//
//	c := lru.New[string, int](100)
//	c.Put("key", 42)
//	value, ok := c.Get("key")
//
// Cache is not safe for concurrent use; callers must handle
// synchronization.
package lru

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 1024

// node is an entry in the recency list. The node stores its key for O(1)
// deletion from the map on eviction.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Stats holds cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the fraction of lookups that hit, 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache maps keys to values and evicts the least recently used entry when
// it grows past its capacity.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*node[K, V]

	// head is the most recently used entry, tail the least.
	head *node[K, V]
	tail *node[K, V]

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates an empty cache holding at most capacity entries.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V]),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry if
// the cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}

	for len(c.items) >= c.capacity && c.tail != nil {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.items, oldest.key)
		c.evictions++
	}

	n := &node[K, V]{key: key, value: value}
	c.pushFront(n)
	c.items[key] = n
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// DeleteFunc removes every entry for which del returns true and returns
// how many were removed.
func (c *Cache[K, V]) DeleteFunc(del func(key K, value V) bool) int {
	removed := 0
	for n := c.head; n != nil; {
		next := n.next
		if del(n.key, n.value) {
			c.unlink(n)
			delete(c.items, n.key)
			removed++
		}
		n = next
	}
	return removed
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int { return len(c.items) }

// Capacity returns the maximum number of entries.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Clear removes all entries. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.items = make(map[K]*node[K, V])
	c.head = nil
	c.tail = nil
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:       len(c.items),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// unlink removes n from the recency list, leaving the map untouched.
func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
