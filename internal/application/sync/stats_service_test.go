package sync

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feedsync/backend/internal/domain/feed"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
)

type fakeStatsCache struct {
	mu      stdsync.Mutex
	entries map[string]feed.Stats
	getErr  error
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string]feed.Stats)}
}

func (c *fakeStatsCache) Get(ctx context.Context, feedURL string) (*feed.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	stats, ok := c.entries[feedURL]
	if !ok {
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *fakeStatsCache) Set(ctx context.Context, feedURL string, stats feed.Stats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[feedURL] = stats
	return nil
}

func TestStatsService(t *testing.T) {
	const feedURL = "https://feed.example.com/feed.xml"

	records := []feed.Record{
		feedRecord("1", "Bir", "S-1", "10.00", 1),
		{ExternalID: "2", Name: "Varyantsız"},
	}

	t.Run("computes and caches stats", func(t *testing.T) {
		cache := newFakeStatsCache()
		svc := NewStatsService(&fakeFetcher{data: []byte("x")}, &fakeParser{records: records}, cache, time.Minute, zap.NewNop())

		stats, cached, err := svc.Stats(context.Background(), feedURL)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, 2, stats.ProductCount)
		assert.Equal(t, 2, stats.VariantCount)

		stats, cached, err = svc.Stats(context.Background(), feedURL)
		require.NoError(t, err)
		assert.True(t, cached)
		assert.Equal(t, 2, stats.ProductCount)
	})

	t.Run("cache read failure falls through to fetch", func(t *testing.T) {
		cache := newFakeStatsCache()
		cache.getErr = assert.AnError
		svc := NewStatsService(&fakeFetcher{data: []byte("x")}, &fakeParser{records: records}, cache, time.Minute, zap.NewNop())

		stats, cached, err := svc.Stats(context.Background(), feedURL)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, 2, stats.ProductCount)
	})

	t.Run("fetch failure surfaces", func(t *testing.T) {
		svc := NewStatsService(&fakeFetcher{err: feed.ErrFeedUnavailable}, &fakeParser{}, newFakeStatsCache(), time.Minute, zap.NewNop())
		_, _, err := svc.Stats(context.Background(), feedURL)
		assert.ErrorIs(t, err, feed.ErrFeedUnavailable)
	})

	t.Run("works without a cache", func(t *testing.T) {
		svc := NewStatsService(&fakeFetcher{data: []byte("x")}, &fakeParser{records: records}, nil, time.Minute, zap.NewNop())
		stats, cached, err := svc.Stats(context.Background(), feedURL)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, 2, stats.ProductCount)
	})
}

func TestConfigService(t *testing.T) {
	t.Run("normalizes store URL on save", func(t *testing.T) {
		store := &fakeConfigStore{}
		svc := NewConfigService(store)

		err := svc.Save(context.Background(), syncdomain.Config{
			StoreURL:   "https://shop.myshopify.com/",
			AdminToken: "shpat_test",
			FeedURL:    "https://feed.example.com/feed.xml",
		})
		require.NoError(t, err)

		saved, err := svc.Get(context.Background())
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "shop.myshopify.com", saved.StoreURL)
	})

	t.Run("get returns nil when nothing stored", func(t *testing.T) {
		svc := NewConfigService(&fakeConfigStore{})
		saved, err := svc.Get(context.Background())
		require.NoError(t, err)
		assert.Nil(t, saved)
	})
}
