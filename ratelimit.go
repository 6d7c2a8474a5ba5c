package modlate

import (
	"context"
	"sync"
	"time"
)

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// RateLimiter paces provider requests with a token bucket. The bucket
// starts full so short jobs run unthrottled.
type RateLimiter struct {
	mu        sync.Mutex
	available float64
	capacity  float64
	perSecond float64
	sampledAt time.Time
}

// NewRateLimiter creates a rate limiter. A zero RequestsPerMinute defaults
// to 60.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := float64(cfg.RequestsPerMinute)
	if rpm <= 0 {
		rpm = 60
	}
	capacity := float64(cfg.BurstSize)
	if capacity <= 0 {
		capacity = rpm
	}

	return &RateLimiter{
		available: capacity,
		capacity:  capacity,
		perSecond: rpm / 60.0,
		sampledAt: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) / r.perSecond)
	for !r.TryAcquire() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil
}

// TryAcquire takes a token without blocking and reports whether one was
// available.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accrue()
	if r.available < 1 {
		return false
	}
	r.available--
	return true
}

// accrue credits tokens for the time elapsed since the last sample. Caller
// must hold the lock.
func (r *RateLimiter) accrue() {
	now := time.Now()
	r.available += now.Sub(r.sampledAt).Seconds() * r.perSecond
	r.sampledAt = now
	if r.available > r.capacity {
		r.available = r.capacity
	}
}

// Available returns the current token count.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accrue()
	return r.available
}
