package service

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a computed snapshot stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// MetricsCache holds the last computed snapshot and serves it for up to one
// TTL. State is per process; in a multi-worker deployment each worker owns an
// independent cache and cross-worker staleness up to the TTL is accepted.
type MetricsCache struct {
	mu       sync.Mutex
	snapshot *MetricsSnapshot
	cachedAt time.Time
	valid    bool
	ttl      time.Duration
}

// NewMetricsCache creates a cache with the given TTL; zero falls back to
// DefaultCacheTTL.
func NewMetricsCache(ttl time.Duration) *MetricsCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MetricsCache{ttl: ttl}
}

// Get returns the cached snapshot if it is still fresh at now.
func (c *MetricsCache) Get(now time.Time) (*MetricsSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil || !c.valid {
		return nil, false
	}
	if now.Sub(c.cachedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// Set replaces the cached snapshot atomically.
func (c *MetricsCache) Set(snapshot *MetricsSnapshot, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.cachedAt = now
	c.valid = true
}

// Invalidate forces the next Get to miss. The last snapshot is kept so it can
// still serve as a fallback when recomputation fails.
func (c *MetricsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
}

// Last returns the most recently cached snapshot regardless of freshness.
func (c *MetricsCache) Last() (*MetricsSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return nil, false
	}
	return c.snapshot, true
}
