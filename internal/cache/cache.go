// Package cache is a small in-process store of remote-read snapshots, each
// with its own time-to-live. Expired entries are never returned and are
// removed lazily on the next access; there is no background sweeper.
package cache

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is one stored snapshot.
type Entry struct {
	Value    any
	StoredAt time.Time
	TTL      time.Duration
}

// Valid reports whether the entry may still be served at now.
func (e Entry) Valid(now time.Time) bool {
	return now.Sub(e.StoredAt) <= e.TTL
}

// Stats is a diagnostic snapshot of the cache.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Cache is a keyed TTL store safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores or replaces the value for key, stamped with the current time.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Value: value, StoredAt: c.now(), TTL: ttl}
	c.log.Debug("cache set", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Get returns the value for key if it is present and unexpired.
// A stale entry is deleted as a side effect.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.Valid(c.now()) {
		delete(c.entries, key)
		c.log.Debug("cache expired", zap.String("key", key))
		return nil, false
	}
	return e.Value, true
}

// GetAs is Get with a type assertion. A value of another type reads as a miss.
func GetAs[T any](c *Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Invalidate removes key unconditionally.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateMatching removes every key matched by the regular expression
// pattern and returns how many were removed.
func (c *Cache) InvalidateMatching(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid cache pattern %q: %w", pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if re.MatchString(key) {
			delete(c.entries, key)
			n++
		}
	}
	c.log.Debug("cache invalidated", zap.String("pattern", pattern), zap.Int("removed", n))
	return n, nil
}

// Clear empties the store.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
}

// Stats reports the current size and key set. Expired entries that have
// not been touched since expiring are still counted.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Size: len(keys), Keys: keys}
}
