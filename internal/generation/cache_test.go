package generation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source for cache tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, maxEntries int, ttl time.Duration) (*ResponseCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)}
	cache, err := newResponseCache(maxEntries, ttl, clock.Now)
	require.NoError(t, err, "cache construction should succeed")
	return cache, clock
}

func TestCacheGetFreshEntry(t *testing.T) {
	cache, clock := newTestCache(t, 8, 30*time.Minute)

	cache.Put("key", &Response{Text: "generated"})

	clock.Advance(29 * time.Minute)
	got, ok := cache.Get("key")
	require.True(t, ok, "entry inside the TTL window should hit")
	assert.Equal(t, "generated", got.Text)
}

func TestCacheExpiryIsAMiss(t *testing.T) {
	cache, clock := newTestCache(t, 8, 30*time.Minute)

	cache.Put("key", &Response{Text: "first"})

	clock.Advance(30 * time.Minute)
	_, ok := cache.Get("key")
	assert.False(t, ok, "entry at exactly the TTL boundary is stale")

	// Stale entries are superseded, not purged: the slot is still
	// occupied until the next Put overwrites it.
	assert.Equal(t, 1, cache.Len())

	cache.Put("key", &Response{Text: "second"})
	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, "second", got.Text, "overwrite should supersede the stale entry")
	assert.Equal(t, 1, cache.Len())
}

func TestCachePutOverwrites(t *testing.T) {
	cache, _ := newTestCache(t, 8, 30*time.Minute)

	cache.Put("key", &Response{Text: "old"})
	cache.Put("key", &Response{Text: "new"})

	got, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", got.Text)
}

func TestCacheReturnsCopy(t *testing.T) {
	cache, _ := newTestCache(t, 8, 30*time.Minute)

	cache.Put("key", &Response{Text: "original"})

	first, ok := cache.Get("key")
	require.True(t, ok)
	first.Text = "mutated"
	first.CacheHit = true

	second, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, "original", second.Text, "caller mutations must not reach the cached copy")
	assert.False(t, second.CacheHit)
}

func TestCacheCapacityBound(t *testing.T) {
	cache, _ := newTestCache(t, 4, 30*time.Minute)

	for i := 0; i < 10; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), &Response{Text: "x"})
	}

	assert.Equal(t, 4, cache.Len(), "cache must never exceed its capacity")

	// Least-recently-used keys are the ones evicted.
	_, ok := cache.Get("key-0")
	assert.False(t, ok)
	_, ok = cache.Get("key-9")
	assert.True(t, ok)
}

func TestCacheConstructionValidation(t *testing.T) {
	_, err := NewResponseCache(0, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidConfig, "zero capacity is invalid")

	_, err = NewResponseCache(8, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig, "zero TTL is invalid")
}
