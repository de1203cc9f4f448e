// Package querycache holds responses of already-executed queries so repeat
// navigation does not refetch, keyed by logical query identity. Mutations
// invalidate by glob pattern so related list and detail entries expire
// together.
package querycache

import (
	"container/list"
	"sync"
	"time"

	"github.com/ryanuber/go-glob"
)

// Cache is an LRU cache with TTL and pattern invalidation. Safe for
// concurrent use.
type Cache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	recency *list.List
}

type entry[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// New returns a cache evicting the least recently used entry beyond maxSize
// and expiring entries after ttl.
func New[T any](maxSize int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		recency: list.New(),
	}
}

// Get returns the cached value for the key if it exists and has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}

	c.recency.MoveToFront(elem)
	return e.data, true
}

// Set stores a value, refreshing recency and TTL for existing keys.
func (c *Cache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[T]{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}

	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.recency.MoveToFront(elem)
		return
	}

	c.items[key] = c.recency.PushFront(e)

	for c.recency.Len() > c.maxSize {
		c.remove(c.recency.Back())
	}
}

// Delete removes a single key.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.remove(elem)
	}
}

// Invalidate removes every key matching the glob pattern and returns how
// many entries were dropped. Called by mutating services, e.g. with
// "expenses*" after an expense create.
func (c *Cache[T]) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, elem := range c.items {
		if glob.Glob(pattern, key) {
			c.remove(elem)
			removed++
		}
	}

	return removed
}

// Size returns the number of entries, including any not yet expired lazily.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.recency.Len()
}

// CleanExpired drops all expired entries and returns how many were removed.
func (c *Cache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, elem := range c.items {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			c.remove(elem)
			removed++
		}
	}

	return removed
}

func (c *Cache[T]) remove(elem *list.Element) {
	e := elem.Value.(*entry[T])
	delete(c.items, e.key)
	c.recency.Remove(elem)
}
