package store

import "sync"

// Cache is a second-level cache of rows keyed by primary key.
// Implementations must be safe for concurrent use.
//
// A miss hands out a token. Put with that token is dropped when any
// invalidation happened in between, so a row read before a concurrent write
// committed never lands in the cache after it.
type Cache[T any] interface {
	Get(id int64) (model *T, token uint64, ok bool)
	Put(id int64, model *T, token uint64)
	Invalidate(id int64)
}

// MemoryCache is a bounded in-process Cache. Values are stored as copies so
// callers may mutate what they get back.
type MemoryCache[T any] struct {
	mu         sync.RWMutex
	items      map[int64]T
	maxEntries int
	epoch      uint64 // bumped by every Invalidate
}

// NewMemoryCache creates a cache holding at most maxEntries rows.
// A non-positive maxEntries means unbounded.
func NewMemoryCache[T any](maxEntries int) *MemoryCache[T] {
	return &MemoryCache[T]{
		items:      make(map[int64]T),
		maxEntries: maxEntries,
	}
}

func (c *MemoryCache[T]) Get(id int64) (*T, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[id]
	if !ok {
		return nil, c.epoch, false
	}
	return &v, c.epoch, true
}

func (c *MemoryCache[T]) Put(id int64, model *T, token uint64) {
	if model == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.epoch {
		return
	}
	if _, ok := c.items[id]; !ok && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		// evict an arbitrary entry
		for k := range c.items {
			delete(c.items, k)
			break
		}
	}
	c.items[id] = *model
}

func (c *MemoryCache[T]) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.epoch++
}

// Len returns the number of cached rows.
func (c *MemoryCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

type noCache[T any] struct{}

func (noCache[T]) Get(int64) (*T, uint64, bool) { return nil, 0, false }
func (noCache[T]) Put(int64, *T, uint64)        {}
func (noCache[T]) Invalidate(int64)             {}
