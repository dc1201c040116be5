package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/feedsync/backend/internal/domain/feed"
)

// StatsService serves feed document statistics, caching results per feed
// URL so repeated calls do not re-download the feed.
type StatsService struct {
	fetcher feed.Fetcher
	parser  feed.Parser
	cache   feed.StatsCache
	ttl     time.Duration
	logger  *zap.Logger
}

func NewStatsService(fetcher feed.Fetcher, parser feed.Parser, cache feed.StatsCache, ttl time.Duration, logger *zap.Logger) *StatsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsService{
		fetcher: fetcher,
		parser:  parser,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Stats returns product and variant counts for the feed. The second return
// reports whether the counts came from the cache.
func (s *StatsService) Stats(ctx context.Context, feedURL string) (feed.Stats, bool, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, feedURL)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		} else if ok {
			return *cached, true, nil
		}
	}

	data, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return feed.Stats{}, false, err
	}
	stats, err := s.parser.Stats(data)
	if err != nil {
		return feed.Stats{}, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, feedURL, stats, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}
