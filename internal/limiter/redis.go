package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed limiter using a fixed window counter per key.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedis constructs a Redis-backed limiter allowing limit requests per window.
func NewRedis(client *redis.Client, limit int, window time.Duration) *Redis {
	return &Redis{client: client, limit: limit, window: window}
}

// Allow increments the counter for key and reports whether the request fits
// in the current window. The window starts with the first request and the
// counter expires with it. INCR and EXPIRE ship in one transaction, and NX
// attaches a TTL to any counter that lost its expiry, so a key can never
// get stuck over the limit.
func (l *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := "ratelimit:" + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if incr.Val() > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
