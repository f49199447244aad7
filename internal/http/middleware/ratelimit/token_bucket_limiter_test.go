package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestTokenBucketBurstThenRefill(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1000, 0)}
	l := newTokenBucketLimiter(1, 3, clk)

	for range 3 {
		require.True(t, l.Allow("c1"))
	}
	require.False(t, l.Allow("c1"))

	clk.advance(2 * time.Second)
	require.True(t, l.Allow("c1"))
	require.True(t, l.Allow("c1"))
	require.False(t, l.Allow("c1"))
}

func TestTokenBucketKeysAreIndependent(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1000, 0)}
	l := newTokenBucketLimiter(1, 1, clk)

	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
}

func TestTokenBucketRefillCapsAtBurst(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1000, 0)}
	l := newTokenBucketLimiter(10, 2, clk)

	require.True(t, l.Allow("c"))
	clk.advance(time.Hour)

	require.True(t, l.Allow("c"))
	require.True(t, l.Allow("c"))
	require.False(t, l.Allow("c"))
}

func TestSweepEvictsIdleBuckets(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1000, 0)}
	l := newTokenBucketLimiter(1, 1, clk)

	require.True(t, l.Allow("idle"))
	clk.advance(10 * time.Minute)
	l.Sweep(5 * time.Minute)

	l.mu.Lock()
	_, ok := l.buckets["idle"]
	l.mu.Unlock()
	require.False(t, ok)
}

func TestNopLimiter(t *testing.T) {
	t.Parallel()

	var l NopLimiter
	for range 100 {
		require.True(t, l.Allow("any"))
	}
}
