// Package rate limits outbound requests per key, such as an RPC method name.
package rate

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) bool
}

type localLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalLimiter returns an in memory limiter allowing perSecond operations
// per key, with bursts of up to perSecond. A zero rate disables limiting.
func NewLocalLimiter(perSecond uint64) Limiter {
	if perSecond == 0 {
		return NoLimiter{}
	}

	return &localLimiter{
		limit:    rate.Limit(perSecond),
		burst:    int(perSecond),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow implements Limiter.Allow.
func (l *localLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// NoLimiter never limits operations
type NoLimiter struct{}

// Allow implements Limiter.Allow.
func (NoLimiter) Allow(string) bool {
	return true
}
