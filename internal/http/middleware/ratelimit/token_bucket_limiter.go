package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// TokenBucketLimiter keeps one token bucket per client key. Buckets refill at
// rps tokens per second up to burst; idle buckets are evicted on sweep.
type TokenBucketLimiter struct {
	rps   float64
	burst float64
	clk   clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewTokenBucketLimiter builds a limiter allowing rps sustained requests with
// the given burst per client key.
func NewTokenBucketLimiter(rps float64, burst int) *TokenBucketLimiter {
	return newTokenBucketLimiter(rps, burst, realClock{})
}

func newTokenBucketLimiter(rps float64, burst int, clk clock) *TokenBucketLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{
		rps:     rps,
		burst:   float64(burst),
		clk:     clk,
		buckets: make(map[string]*bucket),
	}
}

// Allow implements Limiter.
func (l *TokenBucketLimiter) Allow(key string) bool {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.burst - 1, lastSeen: now}
		return true
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * l.rps
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Sweep drops buckets idle for longer than maxIdle. Call it periodically from
// a background goroutine.
func (l *TokenBucketLimiter) Sweep(maxIdle time.Duration) {
	cutoff := l.clk.Now().Add(-maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
