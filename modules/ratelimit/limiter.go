// Package ratelimit provides an optional Redis-backed sliding window rate
// limiter for the HTTP surface.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the limiter settings.
type Config struct {
	RequestsPerWindow int
	WindowSize        time.Duration
}

// DefaultConfig returns the default per-client limits.
func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 100,
		WindowSize:        time.Minute,
	}
}

// Result describes a single limiter decision.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// slidingWindowScript atomically trims expired entries from the per-client
// sorted set, counts the rest, and either records the request or reports how
// long until the oldest entry falls out of the window.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, now .. ':' .. redis.call('INCR', key .. ':seq'))
		redis.call('PEXPIRE', key, window_ms)
		redis.call('PEXPIRE', key .. ':seq', window_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_ms - now
	end
	return {0, 0, retry_after}
`)

// Limiter is a sliding window rate limiter over Redis.
type Limiter struct {
	client *redis.Client
	config Config
	prefix string
}

// NewLimiter creates a new Limiter.
func NewLimiter(client *redis.Client, config Config, prefix string) *Limiter {
	return &Limiter{
		client: client,
		config: config,
		prefix: prefix,
	}
}

// Allow records a request for the given client key and reports whether it
// fits inside the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-l.config.WindowSize)

	values, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.prefix + key},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		l.config.RequestsPerWindow,
		l.config.WindowSize.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script result length: %d", len(values))
	}

	allowed, ok := values[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for allowed: %T", values[0])
	}
	remaining, ok := values[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for remaining: %T", values[1])
	}
	retryAfterMs, ok := values[2].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for retry-after: %T", values[2])
	}

	return &Result{
		Allowed:    allowed == 1,
		Remaining:  int(remaining),
		RetryAfter: time.Duration(retryAfterMs) * time.Millisecond,
	}, nil
}
