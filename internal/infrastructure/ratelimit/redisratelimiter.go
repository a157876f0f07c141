package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces limiter keys so a shared redis can host other
// consumers.
const redisKeyPrefix = "motordesk:rl"

// RedisRateLimiter is a sliding-window limiter over redis sorted sets: one
// set per (key, window), scored by request timestamp. Counters survive
// restarts and are shared across replicas.
type RedisRateLimiter struct {
	client *redis.Client
}

func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &RedisRateLimiter{client: client}
}

func (l *RedisRateLimiter) Allow(key string, config RateLimitConfig) (bool, error) {
	ctx := context.Background()
	now := time.Now()

	for _, w := range config.windows() {
		ok, err := l.allowWindow(ctx, key, w, now)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// allowWindow trims expired entries, counts what is left and records the
// current request in one pipeline round trip. The request is recorded even
// when over the limit: hammering a closed window keeps it closed.
func (l *RedisRateLimiter) allowWindow(ctx context.Context, key string, w window, now time.Time) (bool, error) {
	setKey := l.windowKey(key, w.span)
	cutoff := strconv.FormatInt(now.Add(-w.span).UnixNano(), 10)
	stamp := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "0", cutoff)
	count := pipe.ZCard(ctx, setKey)
	pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(stamp), Member: stamp})
	pipe.Expire(ctx, setKey, w.span+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline: %w", err)
	}

	return count.Val() < int64(w.limit), nil
}

func (l *RedisRateLimiter) GetRemaining(key string, span time.Duration) (int64, error) {
	ctx := context.Background()
	setKey := l.windowKey(key, span)
	cutoff := strconv.FormatInt(time.Now().Add(-span).UnixNano(), 10)

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, setKey, "0", cutoff)
	count := pipe.ZCard(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit count: %w", err)
	}

	return count.Val(), nil
}

func (l *RedisRateLimiter) Reset(key string) error {
	ctx := context.Background()
	pattern := fmt.Sprintf("%s:%s:*", redisKeyPrefix, key)

	iter := l.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := l.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("rate limit reset %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

func (l *RedisRateLimiter) windowKey(key string, span time.Duration) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, key, span)
}
