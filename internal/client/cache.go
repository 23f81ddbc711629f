package client

import (
	"strings"
	"sync"
	"time"
)

// Key identifies a cached query the way the web client keys react-query:
// a resource name plus optional ids, e.g. {"study-plan-tasks", planID}.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "|")
}

type cacheEntry struct {
	value     interface{}
	timestamp time.Time
	ttl       time.Duration
}

type inflightCall struct {
	done  chan struct{}
	value interface{}
	err   error
}

// Cache is a keyed read cache with TTL expiry, explicit invalidation, and
// deduplication of concurrent identical reads. Writes are not serialized:
// two concurrent mutations against the same resource race, and the last
// response to land wins. That non-guarantee is deliberate.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	inflight map[string]*inflightCall
	now      func() time.Time
}

// NewCache creates an empty cache using the given clock.
func NewCache(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]*inflightCall),
		now:      now,
	}
}

// Fetch returns the fresh cached value for key, or runs fn to produce one.
// Concurrent callers with the same key share a single fn invocation.
// Errors are returned but never cached.
func (c *Cache) Fetch(key Key, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	k := key.String()

	c.mu.Lock()
	if entry, ok := c.entries[k]; ok && c.now().Sub(entry.timestamp) < entry.ttl {
		c.mu.Unlock()
		return entry.value, nil
	}
	if call, ok := c.inflight[k]; ok {
		c.mu.Unlock()
		<-call.done
		return call.value, call.err
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[k] = call
	c.mu.Unlock()

	call.value, call.err = fn()

	c.mu.Lock()
	delete(c.inflight, k)
	if call.err == nil {
		c.entries[k] = cacheEntry{value: call.value, timestamp: c.now(), ttl: ttl}
	}
	c.mu.Unlock()

	close(call.done)
	return call.value, call.err
}

// Invalidate marks the key stale so the next read re-fetches.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}

// Size reports the number of cached entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
