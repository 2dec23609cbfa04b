package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitConfig bounds failed site-login attempts per client.
type LimitConfig struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

func (c LimitConfig) withDefaults() LimitConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	if c.Lockout <= 0 {
		c.Lockout = 30 * time.Minute
	}
	return c
}

// Decision is the outcome of checking a key before an attempt.
// Remaining counts the failures still allowed after this attempt.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter tracks failed attempts. A success clears the key entirely.
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
	Fail(ctx context.Context, key string) error
	Clear(ctx context.Context, key string) error
}

// RedisLimiter shares attempt counters across API replicas.
type RedisLimiter struct {
	client *redis.Client
	cfg    LimitConfig
	prefix string
}

var _ Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, cfg LimitConfig) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg.withDefaults(), prefix: "rl:site-login"}
}

func (l *RedisLimiter) failKey(key string) string { return l.prefix + ":fail:" + key }
func (l *RedisLimiter) lockKey(key string) string { return l.prefix + ":lock:" + key }

func (l *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	lockTTL, err := l.client.PTTL(ctx, l.lockKey(key)).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("read lock: %w", err)
	}
	if lockTTL > 0 {
		return Decision{Allowed: false, RetryAfter: lockTTL}, nil
	}

	count, err := l.client.Get(ctx, l.failKey(key)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Decision{}, fmt.Errorf("read failures: %w", err)
	}
	return Decision{Allowed: true, Remaining: max(l.cfg.MaxAttempts-count-1, 0)}, nil
}

// Fail counts one failure. The window starts at the first failure; reaching
// MaxAttempts inside it locks the key until window end plus Lockout.
func (l *RedisLimiter) Fail(ctx context.Context, key string) error {
	fk := l.failKey(key)
	count, err := l.client.Incr(ctx, fk).Result()
	if err != nil {
		return fmt.Errorf("incr failures: %w", err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, fk, l.cfg.Window).Err(); err != nil {
			return fmt.Errorf("expire failures: %w", err)
		}
	}
	if int(count) < l.cfg.MaxAttempts {
		return nil
	}

	windowLeft, err := l.client.PTTL(ctx, fk).Result()
	if err != nil {
		return fmt.Errorf("read window: %w", err)
	}
	if windowLeft < 0 {
		windowLeft = 0
	}
	return l.client.Set(ctx, l.lockKey(key), count, windowLeft+l.cfg.Lockout).Err()
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.failKey(key), l.lockKey(key)).Err()
}

// attempts is an immutable snapshot of one key's failures. Fail replaces it.
type attempts struct {
	count       int
	first       time.Time
	lockedUntil time.Time
}

func (a attempts) locked(now time.Time) bool { return now.Before(a.lockedUntil) }

func (a attempts) expired(now time.Time, window time.Duration) bool {
	return now.Sub(a.first) > window
}

func (a attempts) stale(now time.Time, window time.Duration) bool {
	return !a.locked(now) && a.expired(now, window)
}

// MemoryLimiter is a single-process Limiter for deployments without Redis.
// Stale keys are swept at most once per window, from Fail.
type MemoryLimiter struct {
	mu        sync.Mutex
	cfg       LimitConfig
	entries   map[string]attempts
	lastSweep time.Time
	now       func() time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(cfg LimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg.withDefaults(),
		entries: make(map[string]attempts),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	a, ok := l.entries[key]
	if !ok {
		return Decision{Allowed: true, Remaining: l.cfg.MaxAttempts - 1}, nil
	}
	if a.locked(now) {
		return Decision{Allowed: false, RetryAfter: a.lockedUntil.Sub(now)}, nil
	}
	if a.stale(now, l.cfg.Window) {
		delete(l.entries, key)
		return Decision{Allowed: true, Remaining: l.cfg.MaxAttempts - 1}, nil
	}
	return Decision{Allowed: true, Remaining: max(l.cfg.MaxAttempts-a.count-1, 0)}, nil
}

func (l *MemoryLimiter) Fail(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.cfg.Window {
		l.sweep(now)
	}
	prev, ok := l.entries[key]
	if !ok || prev.expired(now, l.cfg.Window) {
		prev = attempts{first: now}
	}
	next := attempts{count: prev.count + 1, first: prev.first}
	if next.count >= l.cfg.MaxAttempts {
		next.lockedUntil = next.first.Add(l.cfg.Window + l.cfg.Lockout)
	}
	l.entries[key] = next
	return nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for key, a := range l.entries {
		if a.stale(now, l.cfg.Window) {
			delete(l.entries, key)
		}
	}
	l.lastSweep = now
}

func (l *MemoryLimiter) Clear(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
