package ratelimit

// Limiter decides whether a client may make another request right now.
type Limiter interface {
	Allow(key string) bool
}
