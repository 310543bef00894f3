package objectstore

import (
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
)

// BlobCache is a process-local, bounded, FIFO-eviction cache of decoded
// blob bytes keyed by commit id. It is safe for concurrent use by the
// decode worker and the background prefetcher.
type BlobCache struct {
	mu     sync.Mutex
	keys   []plumbing.Hash          // insertion order, fixed capacity
	values map[plumbing.Hash][]byte // keyed lookups
	next   int                      // circular slot pointer, 0..capacity-1
	count  int                      // number of occupied slots, caps at capacity
}

// NewBlobCache returns a cache bounded to capacity entries.
func NewBlobCache(capacity int) *BlobCache {
	if capacity < 1 {
		capacity = 1
	}
	return &BlobCache{
		keys:   make([]plumbing.Hash, capacity),
		values: make(map[plumbing.Hash][]byte, capacity),
	}
}

// Get returns the cached bytes for id, if present.
func (c *BlobCache) Get(id plumbing.Hash) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[id]
	return v, ok
}

// Has reports whether id is currently cached, without affecting
// eviction order. Used by the prefetcher to skip warm entries.
func (c *BlobCache) Has(id plumbing.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[id]
	return ok
}

// Put inserts bytes for id, evicting the oldest inserted entry if the
// cache is full. Insertion uses a circular slot pointer: the slot at
// the pointer is overwritten and the pointer advances modulo capacity.
func (c *BlobCache) Put(id plumbing.Hash, bytes []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[id]; exists {
		return
	}

	capacity := len(c.keys)
	if c.count == capacity {
		// Cache full: overwrite the oldest inserted entry at the slot pointer.
		evict := c.keys[c.next]
		delete(c.values, evict)
	} else {
		c.count++
	}

	c.keys[c.next] = id
	c.values[id] = bytes
	c.next = (c.next + 1) % capacity
}
