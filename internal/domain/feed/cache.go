package feed

import (
	"context"
	"time"
)

// StatsCache caches feed document statistics keyed by feed URL, so repeated
// stats requests do not re-download the feed.
type StatsCache interface {
	// Get returns the cached stats and whether the key was present.
	Get(ctx context.Context, feedURL string) (*Stats, bool, error)
	// Set stores stats with a TTL.
	Set(ctx context.Context, feedURL string, stats Stats, ttl time.Duration) error
}
