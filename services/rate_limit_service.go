package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	CheckLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, time.Duration, error)
}

// RateLimitService counts requests per key in Redis. Each request pushes
// the key expiry out by the window.
type RateLimitService struct {
	redis     *redis.Client
	keyPrefix string
}

var _ RateLimiterInterface = (*RateLimitService)(nil)

func NewRateLimitService(redis *redis.Client) *RateLimitService {
	return &RateLimitService{
		redis:     redis,
		keyPrefix: "rate_limit:",
	}
}

// CheckLimit counts one request against key. When the limit is exceeded it
// returns false and the time until the window resets.
func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, time.Duration, error) {
	rKey := s.keyPrefix + key

	pipe := s.redis.TxPipeline()
	incr := pipe.Incr(ctx, rKey)
	pipe.Expire(ctx, rKey, duration)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if incr.Val() > int64(limit) {
		ttl, err := s.redis.TTL(ctx, rKey).Result()
		if err != nil || ttl < 0 {
			ttl = duration
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
