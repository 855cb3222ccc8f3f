// ABOUTME: Small in-memory TTL cache used for resolved profiles
// ABOUTME: Entries expire lazily on read; no background sweeper is needed at this scale

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Cache is a typed string-keyed cache with per-entry expiry. Safe for
// concurrent use.
type Cache[T any] struct {
	mu         sync.Mutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
}

// New creates a cache whose Set entries live for ttl
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: ttl,
	}
}

// Get returns the live value for key, evicting it first if expired
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		slog.Debug("cache miss", "key", key)
		var zero T
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		slog.Debug("cache expired", "key", key)
		var zero T
		return zero, false
	}

	slog.Debug("cache hit", "key", key)
	return e.value, true
}

// Set stores value under key with the default TTL
func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with a custom TTL
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	slog.Debug("cache set", "key", key, "ttl", ttl)
}

// Clear removes key if present
func (c *Cache[T]) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
