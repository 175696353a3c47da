package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging/debugging.
type Limiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	name     string
	interval time.Duration
}

// New creates a limiter that lets one request through per interval.
// The first request proceeds immediately; each later one waits until a full
// interval has passed since the previous one finished (see Done). A
// non-positive interval disables pacing.
func New(name string, interval time.Duration) *Limiter {
	return &Limiter{
		limiter:  newBucket(interval),
		name:     name,
		interval: interval,
	}
}

func newBucket(interval time.Duration) *rate.Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return rate.NewLimiter(limit, 1)
}

// Wait blocks until the rate limiter allows a request to proceed.
// Returns an error if the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	lim := l.limiter
	l.mu.Unlock()

	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Done marks the end of a request. The next Wait blocks for a full interval
// from now, however long the request itself took.
func (l *Limiter) Done() {
	bucket := newBucket(l.interval)
	bucket.Allow()

	l.mu.Lock()
	l.limiter = bucket
	l.mu.Unlock()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	return l.name
}

// Interval returns the pause enforced after each request.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
