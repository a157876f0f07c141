package ratelimit

import (
	"sync"
	"time"
)

// MemoryRateLimiter is a sliding-window limiter held in process memory. Used
// when redis is not configured and in tests. Counters are per instance, so a
// multi-replica deployment should use the redis limiter instead.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

func NewMemoryRateLimiter() RateLimiter {
	return &MemoryRateLimiter{
		entries: make(map[string][]time.Time),
	}
}

func (l *MemoryRateLimiter) Allow(key string, config RateLimitConfig) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Trim against the widest window so the slice stays bounded.
	timestamps := l.trimLocked(key, now, 24*time.Hour)

	for _, w := range config.windows() {
		cutoff := now.Add(-w.span)
		count := 0
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				count++
			}
		}
		if count >= w.limit {
			return false, nil
		}
	}

	l.entries[key] = append(timestamps, now)
	return true, nil
}

func (l *MemoryRateLimiter) GetRemaining(key string, window time.Duration) (int64, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-window)
	var count int64
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (l *MemoryRateLimiter) Reset(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

func (l *MemoryRateLimiter) trimLocked(key string, now time.Time, maxWindow time.Duration) []time.Time {
	cutoff := now.Add(-maxWindow)
	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.entries[key] = kept
	return kept
}
