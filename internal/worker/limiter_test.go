package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 1 {
		t.Errorf("expected burst 1 for negative input, got %d", l2.burst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://api.example.edu/requirements"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://other.example.edu/courses"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://api.example.edu/requirements?major=IS"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Same host, different path shares the bucket
	if limiter.Allow("http://api.example.edu/courses?major=IS") {
		t.Error("expected exhausted bucket for same host")
	}
	if !limiter.Allow("http://mirror.example.edu/requirements") {
		t.Error("expected fresh bucket for other host")
	}
}

func TestLimiter_WaitCanceled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	url := "http://api.example.edu"

	if !limiter.Allow(url) {
		t.Fatal("expected first request to pass")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when the deadline is shorter than the wait")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 50; i++ {
		if !limiter.Allow("http://api.example.edu") {
			t.Fatalf("request %d throttled with limiting disabled", i)
		}
	}
}
