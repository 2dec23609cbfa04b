package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimit = LimitConfig{MaxAttempts: 5, Window: 15 * time.Minute, Lockout: 30 * time.Minute}

func TestMemoryLimiter_LocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewMemoryLimiter(testLimit)
	l.now = func() time.Time { return now }

	d, err := l.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)

	for i := 0; i < 4; i++ {
		require.NoError(t, l.Fail(ctx, "1.2.3.4"))
		now = now.Add(time.Minute)
	}
	d, _ = l.Check(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	require.NoError(t, l.Fail(ctx, "1.2.3.4"))
	d, _ = l.Check(ctx, "1.2.3.4")
	assert.False(t, d.Allowed)
	// locked until first failure + window + lockout
	assert.Equal(t, base.Add(45*time.Minute).Sub(now), d.RetryAfter)

	other, _ := l.Check(ctx, "5.6.7.8")
	assert.True(t, other.Allowed)

	now = base.Add(45*time.Minute + time.Second)
	d, _ = l.Check(ctx, "1.2.3.4")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestMemoryLimiter_WindowExpiryResetsCount(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(testLimit)
	l.now = func() time.Time { return now }

	for i := 0; i < 4; i++ {
		require.NoError(t, l.Fail(ctx, "ip"))
	}
	now = now.Add(16 * time.Minute)
	require.NoError(t, l.Fail(ctx, "ip"))

	d, _ := l.Check(ctx, "ip")
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Remaining)
}

func TestMemoryLimiter_ClearOnSuccess(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(testLimit)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Fail(ctx, "ip"))
	}
	require.NoError(t, l.Clear(ctx, "ip"))

	d, _ := l.Check(ctx, "ip")
	assert.Equal(t, 4, d.Remaining)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiter_LocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	l := NewRedisLimiter(client, testLimit)

	for i := 0; i < 4; i++ {
		require.NoError(t, l.Fail(ctx, "1.2.3.4"))
	}
	d, err := l.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	require.NoError(t, l.Fail(ctx, "1.2.3.4"))
	d, err = l.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.InDelta(t, (45 * time.Minute).Seconds(), d.RetryAfter.Seconds(), 1)

	mr.FastForward(46 * time.Minute)
	d, err = l.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestRedisLimiter_Clear(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	l := NewRedisLimiter(client, testLimit)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Fail(ctx, "ip"))
	}
	require.NoError(t, l.Clear(ctx, "ip"))

	d, err := l.Check(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestMemoryLimiter_SweepsStaleKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(testLimit)
	l.now = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		require.NoError(t, l.Fail(ctx, fmt.Sprintf("198.51.%d.%d", i/256, i%256)))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Fail(ctx, "locked"))
	}
	assert.Len(t, l.entries, 10001)

	// past the window but inside the lockout
	now = now.Add(20 * time.Minute)
	require.NoError(t, l.Fail(ctx, "fresh"))
	assert.Len(t, l.entries, 2)
	assert.Contains(t, l.entries, "locked")

	now = now.Add(48 * time.Hour)
	require.NoError(t, l.Fail(ctx, "later"))
	assert.Len(t, l.entries, 1)
	assert.Contains(t, l.entries, "later")
}
