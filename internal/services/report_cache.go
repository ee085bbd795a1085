// Package services holds the collaborator services around the reporting
// adapter: summary caching and snapshot persistence.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/analytics"
)

// ReportCacheService caches historical report summaries in Redis so
// repeated dashboard loads do not burn upstream API quota.
type ReportCacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CachedDashboard is the cached combined dashboard payload.
type CachedDashboard struct {
	Summary  *analytics.DashboardSummary `json:"summary"`
	CachedAt time.Time                   `json:"cached_at"`
}

// NewReportCacheService creates a new report cache service.
func NewReportCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCacheService {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &ReportCacheService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey generates a cache key for a report and date range.
func (s *ReportCacheService) cacheKey(report, startDate, endDate string) string {
	return fmt.Sprintf("analytics:%s:%s:%s", report, startDate, endDate)
}

// GetDashboard retrieves a cached dashboard summary. A nil result with a
// nil error is a cache miss; cache errors degrade to a miss.
func (s *ReportCacheService) GetDashboard(ctx context.Context, startDate, endDate string) (*CachedDashboard, error) {
	if s.redis == nil {
		return nil, nil
	}

	key := s.cacheKey("dashboard", startDate, endDate)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		s.logger.Warn("failed to get dashboard from cache", zap.Error(err), zap.String("key", key))
		return nil, nil
	}

	var cached CachedDashboard
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("failed to unmarshal cached dashboard", zap.Error(err))
		return nil, nil
	}

	s.logger.Debug("cache hit for dashboard", zap.String("key", key))
	return &cached, nil
}

// SetDashboard stores a dashboard summary in cache. Mock payloads are
// never cached: a degraded fetch should retry on the next request.
func (s *ReportCacheService) SetDashboard(ctx context.Context, startDate, endDate string, summary *analytics.DashboardSummary) error {
	if s.redis == nil {
		return nil
	}
	if summary.Engagement != nil && summary.Engagement.IsMock {
		return nil
	}

	cached := CachedDashboard{Summary: summary, CachedAt: time.Now()}
	data, err := json.Marshal(cached)
	if err != nil {
		s.logger.Warn("failed to marshal dashboard for cache", zap.Error(err))
		return err
	}

	key := s.cacheKey("dashboard", startDate, endDate)
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to set dashboard in cache", zap.Error(err), zap.String("key", key))
		return err
	}

	s.logger.Debug("cached dashboard", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

// Invalidate removes all cached summaries.
func (s *ReportCacheService) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}

	keys, err := s.redis.Keys(ctx, "analytics:*").Result()
	if err != nil {
		s.logger.Warn("failed to find cache keys to invalidate", zap.Error(err))
		return err
	}

	if len(keys) > 0 {
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.Error(err))
			return err
		}
		s.logger.Debug("invalidated report cache", zap.Int("keys_removed", len(keys)))
	}

	return nil
}
