package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/progress"

	"github.com/redis/go-redis/v9"
)

// ProgressCache holds rendered progress reports. Failures are logged and
// reported as misses; the database stays the source of truth.
type ProgressCache interface {
	Get(ctx context.Context, userID, courseID string) (*progress.Report, bool)
	Set(ctx context.Context, userID, courseID string, report *progress.Report)
	Invalidate(ctx context.Context, userID, courseID string)
}

type progressRedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewProgressCache returns a redis-backed cache. A nil client gives a
// cache that never hits and never stores.
func NewProgressCache(client *redis.Client, ttl time.Duration, log *logger.Logger) ProgressCache {
	return &progressRedisCache{client: client, ttl: ttl, log: log}
}

func progressKey(userID, courseID string) string {
	return fmt.Sprintf("progress:user:%s:course:%s", userID, courseID)
}

func (c *progressRedisCache) Get(ctx context.Context, userID, courseID string) (*progress.Report, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, progressKey(userID, courseID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("progress_cache_get_failed", "user_id", userID, "course_id", courseID, "error", err)
		}
		return nil, false
	}
	var report progress.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.log.Warn("progress_cache_entry_unreadable", "user_id", userID, "course_id", courseID, "error", err)
		return nil, false
	}
	return &report, true
}

func (c *progressRedisCache) Set(ctx context.Context, userID, courseID string, report *progress.Report) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		c.log.Warn("progress_cache_encode_failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, progressKey(userID, courseID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("progress_cache_set_failed", "user_id", userID, "course_id", courseID, "error", err)
	}
}

func (c *progressRedisCache) Invalidate(ctx context.Context, userID, courseID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, progressKey(userID, courseID)).Err(); err != nil {
		c.log.Warn("progress_cache_invalidate_failed", "user_id", userID, "course_id", courseID, "error", err)
	}
}
