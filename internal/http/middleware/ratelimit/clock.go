package ratelimit

import "time"

// clock abstracts time for deterministic limiter tests.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
