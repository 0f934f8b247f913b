package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a small concurrency-safe map cache with one TTL for all entries.
// Used to keep the discovery feed from re-querying on every browse request.
// Cleanup is lazy; expired entries are dropped on read or via PurgeExpired.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
}

// New constructs a cache whose entries expire after ttl.
// A ttl <= 0 means entries never expire.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get returns the value and whether it was present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores the value under key with the cache-wide TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, expiresAt: exp}
}

// Delete removes a key if present.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of items currently stored, expired or not.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// PurgeExpired scans and removes expired entries.
func (c *Cache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := now()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && t.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
}
