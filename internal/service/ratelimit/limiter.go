// Package ratelimit implements the per-client token bucket used by the API middleware.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pruneAt is the number of tracked clients that triggers a sweep of full buckets.
const pruneAt = 4096

// Limiter keeps one rate.Limiter per client key.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*rate.Limiter
	burst   int
	refill  rate.Limit
	pruneAt int
	now     func() time.Time
}

func New(capacity int, refillPerSec float64) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		m:       make(map[string]*rate.Limiter),
		burst:   capacity,
		refill:  rate.Limit(refillPerSec),
		pruneAt: pruneAt,
		now:     time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		if len(l.m) >= l.pruneAt {
			l.prune(now)
		}
		b = rate.NewLimiter(l.refill, l.burst)
		l.m[key] = b
	}
	return b.AllowN(now, 1)
}

// Prune drops buckets idle long enough to be full again.
func (l *Limiter) Prune() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(now)
}

func (l *Limiter) prune(now time.Time) {
	if l.refill <= 0 {
		return
	}
	for k, b := range l.m {
		if b.TokensAt(now) >= float64(l.burst) {
			delete(l.m, k)
		}
	}
}
