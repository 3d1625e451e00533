// Package ratelimit provides a Redis-based sliding window rate limiter and
// the Fiber middleware that applies it to the HTTP API.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiting configuration for one limiter.
type Config struct {
	// RequestsPerWindow is the maximum number of requests allowed in the window.
	RequestsPerWindow int
	// WindowSize is the duration of the sliding window.
	WindowSize time.Duration
}

// Result represents the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// SlidingWindowLimiter implements a sliding window rate limiter using Redis.
// Request timestamps live in a sorted set; the count of entries inside the
// window decides admission.
type SlidingWindowLimiter struct {
	client *redis.Client
	config Config
	prefix string
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(client *redis.Client, config Config, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		config: config,
		prefix: prefix,
	}
}

// Allow checks if a request identified by key is admitted under the limit.
// The whole check-and-record step runs as one Lua script so concurrent
// requests cannot race past the limit.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-l.config.WindowSize)
	redisKey := l.prefix + key

	script := redis.NewScript(`
		local key = KEYS[1]
		local counter_key = KEYS[2]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_size_ms = tonumber(ARGV[4])

		-- Remove old entries outside the window
		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count < limit then
			-- Atomic counter gives each entry a unique member
			local counter = redis.call('INCR', counter_key)
			redis.call('ZADD', key, now, now .. ':' .. counter)
			redis.call('PEXPIRE', key, window_size_ms)
			redis.call('PEXPIRE', counter_key, window_size_ms)
			return {1, limit - count - 1, 0}
		else
			local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
			local retry_after = 0
			if #oldest >= 2 then
				retry_after = oldest[2] + window_size_ms - now
			end
			return {0, 0, retry_after}
		end
	`)

	counterKey := redisKey + ":counter"
	result, err := script.Run(ctx, l.client, []string{redisKey, counterKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	if len(result) < 3 {
		return nil, fmt.Errorf("unexpected result length: %d", len(result))
	}

	allowedVal, ok := result[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for allowed: %T", result[0])
	}
	remainingVal, ok := result[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for remaining: %T", result[1])
	}
	retryAfterMs, ok := result[2].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for retry_after: %T", result[2])
	}

	res := &Result{
		Allowed:   allowedVal == 1,
		Remaining: int(remainingVal),
		ResetAt:   now.Add(l.config.WindowSize),
	}
	if !res.Allowed && retryAfterMs > 0 {
		res.RetryAfter = time.Duration(retryAfterMs) * time.Millisecond
	}

	return res, nil
}
