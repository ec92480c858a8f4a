package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/models"
	"go.uber.org/zap"
)

// Cache lifetimes for platform-wide data.
const (
	StatsTTL       = 5 * time.Minute
	LeaderboardTTL = time.Minute
)

// StatsSource is the platform surface for community-wide numbers.
type StatsSource interface {
	Stats(ctx context.Context) (*models.PlatformStats, error)
	Leaderboard(ctx context.Context) ([]models.Leader, error)
}

// StatsService serves platform stats and the points leaderboard from a
// cache, falling back to the remote on a miss.
type StatsService struct {
	remote StatsSource
	cache  Cache
	logger *zap.Logger
}

func NewStatsService(remote StatsSource, cache Cache, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{remote: remote, cache: cache, logger: logger}
}

// Stats returns platform counters. refresh skips the cache.
func (s *StatsService) Stats(ctx context.Context, refresh bool) (*models.PlatformStats, error) {
	return cached(ctx, s, "stats", StatsTTL, refresh, s.remote.Stats)
}

// Leaderboard returns the points leaderboard.
func (s *StatsService) Leaderboard(ctx context.Context, refresh bool) ([]models.Leader, error) {
	return cached(ctx, s, "leaderboard", LeaderboardTTL, refresh, s.remote.Leaderboard)
}

// cached reads key from the cache, fetching and storing it on a miss. Cache
// errors are logged and treated as misses. A failed forced refresh falls
// back to the cached value.
func cached[T any](ctx context.Context, s *StatsService, key string, ttl time.Duration, refresh bool, fetch func(context.Context) (T, error)) (T, error) {
	var v T
	if !refresh {
		if hit := s.read(ctx, key, &v); hit {
			return v, nil
		}
	}

	fresh, err := fetch(ctx)
	if err != nil {
		if refresh && s.read(ctx, key, &v) {
			s.logger.Warn("refresh failed, serving cached value", zap.String("key", key), zap.Error(err))
			return v, nil
		}
		return v, fmt.Errorf("fetch %s: %w", key, err)
	}
	if err := s.cache.Set(ctx, key, fresh, ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}

func (s *StatsService) read(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}
