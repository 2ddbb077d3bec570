package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket holding at most burst tokens, refilled one
// token per interval. It is safe for concurrent use.
type RateLimiter struct {
	mu       sync.Mutex
	burst    int
	interval time.Duration
	tokens   int
	last     time.Time
	now      func() time.Time
}

// NewRateLimiter creates a full bucket of burst tokens.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		burst:    burst,
		interval: interval,
		tokens:   burst,
		last:     time.Now(),
		now:      time.Now,
	}
}

// Wait takes a token, sleeping until one is refilled. It returns ctx.Err()
// if ctx ends first; no token is consumed in that case.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		delay := r.take()
		if delay == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available reports the tokens left after refill.
func (r *RateLimiter) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refill()
	return r.tokens
}

// take consumes a token and returns 0, or returns how long until the next
// token is due.
func (r *RateLimiter) take() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens > 0 {
		r.tokens--
		return 0
	}
	wait := r.interval - r.now().Sub(r.last)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}

func (r *RateLimiter) refill() {
	if r.interval <= 0 {
		r.tokens = r.burst
		return
	}
	elapsed := r.now().Sub(r.last)
	n := int(elapsed / r.interval)
	if n <= 0 {
		return
	}
	r.tokens += n
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.last = r.last.Add(time.Duration(n) * r.interval)
}
