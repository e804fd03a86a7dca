package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/businesstime"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/sla/calendar"
)

// ScheduleCache memoizes resolved day schedules in Redis. Contract
// configuration is immutable, so cached entries only need a TTL to bound
// memory, not invalidation. Cache failures degrade to direct resolution.
type ScheduleCache struct {
	redis  *Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewScheduleCache builds the cache wrapper.
func NewScheduleCache(redis *Redis, ttl time.Duration, logger *zap.Logger) *ScheduleCache {
	return &ScheduleCache{redis: redis, ttl: ttl, logger: logger}
}

// Wrap decorates a schedule source with caching keyed by contract and
// date range. A nil cache or client returns the source unchanged.
func (c *ScheduleCache) Wrap(contractID string, src businesstime.ScheduleSource) businesstime.ScheduleSource {
	if c == nil || c.redis == nil || c.redis.Client == nil || c.ttl <= 0 {
		return src
	}
	return &cachedScheduleSource{cache: c, contractID: contractID, inner: src}
}

type cachedScheduleSource struct {
	cache      *ScheduleCache
	contractID string
	inner      businesstime.ScheduleSource
}

func (s *cachedScheduleSource) DaySchedules(ctx context.Context, from, to time.Time) ([]calendar.DaySchedule, error) {
	key := fmt.Sprintf("sla:schedule:%s:%s:%s",
		s.contractID,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"))

	if payload, err := s.cache.redis.Client.Get(ctx, key).Bytes(); err == nil {
		var days []calendar.DaySchedule
		if err := json.Unmarshal(payload, &days); err == nil {
			return days, nil
		}
		s.cache.logger.Warn("discarding undecodable schedule cache entry", zap.String("key", key))
	}

	days, err := s.inner.DaySchedules(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(days); err == nil {
		if err := s.cache.redis.Client.Set(ctx, key, payload, s.cache.ttl).Err(); err != nil {
			s.cache.logger.Debug("schedule cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return days, nil
}
