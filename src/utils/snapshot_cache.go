package utils

import (
	"sort"
	"strings"
	"sync"
	"time"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// SnapshotCache memoizes on-demand snapshot computations keyed by the
// requested symbol set and period. Entries live for one refresh cadence:
// within a cycle the underlying bars cannot have changed, so identical
// requests are served from memory.
// -----------------------------------------------------------------------------

type SnapshotCache struct {
	ttl     time.Duration
	entries map[string]cacheEntry
	mu      sync.Mutex

	hits   int64
	misses int64
}

type cacheEntry struct {
	quotes  map[string]models.MQuoteSnapshot
	errs    []models.MFetchError
	expires time.Time
}

// -----------------------------------------------------------------------------

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// -----------------------------------------------------------------------------

// CacheKey canonicalizes a request: symbol order must not matter.
func CacheKey(symbols []string, period string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return period + "|" + strings.Join(sorted, ",")
}

// -----------------------------------------------------------------------------

// Get returns a live entry for the key, if any.
func (c *SnapshotCache) Get(key string) (map[string]models.MQuoteSnapshot, []models.MFetchError, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expires) {
		c.misses++
		return nil, nil, false
	}
	c.hits++
	return e.quotes, e.errs, true
}

// -----------------------------------------------------------------------------

// Put stores a computed result under the key for one TTL window. Expired
// entries are swept opportunistically on write.
func (c *SnapshotCache) Put(key string, quotes map[string]models.MQuoteSnapshot, errs []models.MFetchError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{quotes: quotes, errs: errs, expires: now.Add(c.ttl)}
}

// -----------------------------------------------------------------------------

// Invalidate drops everything; called after each refresh cycle writes new bars.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// -----------------------------------------------------------------------------

// Stats reports lifetime hit/miss counters.
func (c *SnapshotCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
