package ratelimit

import "time"

// RateLimitConfig caps requests per key across three sliding windows. A zero
// or negative limit disables that window.
type RateLimitConfig struct {
	RequestsPerMinute int
	RequestsPerHour   int
	RequestsPerDay    int
	BurstSize         int
}

type window struct {
	span  time.Duration
	limit int
}

// windows returns the enabled windows, narrowest first, so the cheapest
// check rejects first.
func (c RateLimitConfig) windows() []window {
	all := []window{
		{time.Minute, c.RequestsPerMinute},
		{time.Hour, c.RequestsPerHour},
		{24 * time.Hour, c.RequestsPerDay},
	}
	enabled := make([]window, 0, len(all))
	for _, w := range all {
		if w.limit > 0 {
			enabled = append(enabled, w)
		}
	}
	return enabled
}

// RateLimiter is pluggable: redis-backed in deployments, in-memory for single
// instances and tests.
type RateLimiter interface {
	Allow(key string, config RateLimitConfig) (bool, error)
	GetRemaining(key string, window time.Duration) (int64, error)
	Reset(key string) error
}
