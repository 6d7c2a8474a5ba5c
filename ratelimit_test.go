package modlate

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if !r.TryAcquire() {
			t.Fatalf("acquire %d should succeed within burst", i)
		}
	}
	if r.TryAcquire() {
		t.Error("acquire beyond burst should fail")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	// 6000 rpm = 100 tokens/second, so the bucket refills quickly.
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 6000, BurstSize: 1})

	if !r.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if r.TryAcquire() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)
	if !r.TryAcquire() {
		t.Error("bucket should have refilled")
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 1})
	if !r.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); err == nil {
		t.Error("Wait should fail when the context expires before a token is free")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	r := NewRateLimiter(RateLimitConfig{})
	if r.Available() < 59 {
		t.Errorf("default limiter should start with a full bucket, have %f", r.Available())
	}
}
