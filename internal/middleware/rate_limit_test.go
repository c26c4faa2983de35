package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", now)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if allowed, _ := limiter.Allow("10.0.0.1", now); allowed {
		t.Error("request over the limit should be denied")
	}

	// Other clients are tracked independently.
	if allowed, _ := limiter.Allow("10.0.0.2", now); !allowed {
		t.Error("separate client should not be affected")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	start := time.Now()

	limiter.Allow("10.0.0.1", start)
	limiter.Allow("10.0.0.1", start)

	if allowed, _ := limiter.Allow("10.0.0.1", start.Add(30*time.Second)); allowed {
		t.Error("request inside the window should be denied")
	}

	if allowed, _ := limiter.Allow("10.0.0.1", start.Add(2*time.Minute)); !allowed {
		t.Error("request after the window should be allowed again")
	}
}

func TestRateLimiterRemaining(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	now := time.Now()

	_, remaining := limiter.Allow("10.0.0.1", now)
	if remaining != 2 {
		t.Errorf("remaining after first request = %d, want 2", remaining)
	}

	_, remaining = limiter.Allow("10.0.0.1", now)
	if remaining != 1 {
		t.Errorf("remaining after second request = %d, want 1", remaining)
	}
}
