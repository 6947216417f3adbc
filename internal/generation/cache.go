package generation

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheEntry pairs a response with the moment it was stored.
type cacheEntry struct {
	response Response
	storedAt time.Time
}

// ResponseCache is a bounded, time-aware store of prior generation results
// keyed by the deterministic request key. An entry is usable while younger
// than the TTL; stale entries are treated as misses and superseded by the
// next resolution for their key, never swept. The LRU capacity bounds
// memory for long-lived processes.
//
// Safe for concurrent use.
type ResponseCache struct {
	entries *lru.Cache[string, cacheEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewResponseCache creates a cache holding at most maxEntries responses,
// each fresh for ttl.
func NewResponseCache(maxEntries int, ttl time.Duration) (*ResponseCache, error) {
	return newResponseCache(maxEntries, ttl, time.Now)
}

// newResponseCache allows tests to inject a clock.
func newResponseCache(maxEntries int, ttl time.Duration, now func() time.Time) (*ResponseCache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: cache capacity must be positive, got %d", ErrInvalidConfig, maxEntries)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: cache TTL must be positive, got %s", ErrInvalidConfig, ttl)
	}

	entries, err := lru.New[string, cacheEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &ResponseCache{
		entries: entries,
		ttl:     ttl,
		now:     now,
	}, nil
}

// Get returns the cached response for key if one exists and is still
// fresh. Stale entries are reported as misses but left in place; the
// caller's subsequent Put overwrites them.
func (c *ResponseCache) Get(key string) (*Response, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}

	response := entry.response
	return &response, true
}

// Put records the response for key with the current timestamp, overwriting
// any prior entry. The response is stored by value so later mutations by
// the caller do not alter the cached copy.
func (c *ResponseCache) Put(key string, response *Response) {
	c.entries.Add(key, cacheEntry{
		response: *response,
		storedAt: c.now(),
	})
}

// Len returns the number of entries currently held, fresh or stale.
func (c *ResponseCache) Len() int {
	return c.entries.Len()
}
