package app

import (
	"time"

	"logihub/internal/config"
	"logihub/internal/http/middleware/ratelimit"
)

const (
	limiterSweepInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

// newSweptLimiter builds the per-client limiter and starts its background
// sweep. The goroutine lives for the process lifetime.
func newSweptLimiter(cfg config.RateLimit) ratelimit.Limiter {
	l := ratelimit.NewTokenBucketLimiter(cfg.RPS, cfg.Burst)
	go func() {
		t := time.NewTicker(limiterSweepInterval)
		defer t.Stop()
		for range t.C {
			l.Sweep(limiterMaxIdle)
		}
	}()
	return l
}
