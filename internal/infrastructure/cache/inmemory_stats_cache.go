package cache

import (
	"context"
	"sync"
	"time"

	"github.com/feedsync/backend/internal/domain/feed"
)

// InMemoryStatsCache implements feed.StatsCache in process memory. Suitable
// for single-instance deployments and testing; cached entries are not
// shared across processes.
type InMemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[string]statsEntry
}

type statsEntry struct {
	stats     feed.Stats
	expiresAt time.Time
}

func NewInMemoryStatsCache() *InMemoryStatsCache {
	return &InMemoryStatsCache{entries: make(map[string]statsEntry)}
}

var _ feed.StatsCache = (*InMemoryStatsCache)(nil)

func (c *InMemoryStatsCache) Get(ctx context.Context, feedURL string) (*feed.Stats, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[feedURL]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			c.mu.Lock()
			delete(c.entries, feedURL)
			c.mu.Unlock()
		}
		return nil, false, nil
	}
	stats := entry.stats
	return &stats, true, nil
}

func (c *InMemoryStatsCache) Set(ctx context.Context, feedURL string, stats feed.Stats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[feedURL] = statsEntry{
		stats:     stats,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
