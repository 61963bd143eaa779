package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding outbound API calls. The upstream
// data APIs throttle aggressively on their free tiers, so every request
// acquires a token first.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	burst      int
	refillEach time.Duration
	lastRefill time.Time
}

// NewRateLimiter allows burst calls immediately, then one more per refillEach.
func NewRateLimiter(burst int, refillEach time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     burst,
		burst:      burst,
		refillEach: refillEach,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.tryAcquire() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.refillEach):
		}
	}
}

func (r *RateLimiter) tryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastRefill)
	if refilled := int(elapsed / r.refillEach); refilled > 0 {
		r.tokens += refilled
		if r.tokens > r.burst {
			r.tokens = r.burst
		}
		r.lastRefill = r.lastRefill.Add(time.Duration(refilled) * r.refillEach)
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
