package folio

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestContactLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewContactLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestContactLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewContactLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestContactLimiterIsPerIP(t *testing.T) {
	limiter := NewContactLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestContactLimiterReleaseGivesBackAttempt(t *testing.T) {
	limiter := NewContactLimiter(1, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Reserve(ip) {
			t.Fatalf("reserve %d: expected allowed after release", i)
		}
		limiter.Release(ip)
	}
	if !limiter.Reserve(ip) {
		t.Fatalf("expected reserve to succeed")
	}
	if limiter.Reserve(ip) {
		t.Fatalf("expected blocked after one kept reservation")
	}
	limiter.Release("203.0.113.41")
}

func TestContactLimiterReserveIsAtomic(t *testing.T) {
	const max = 3
	limiter := NewContactLimiter(max, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.50"

	var (
		wg      sync.WaitGroup
		granted atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Reserve(ip) {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := granted.Load(); got != max {
		t.Fatalf("expected %d reservations, got %d", max, got)
	}
}

func TestContactLimiterStopEndsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	limiter := NewContactLimiter(1, 10*time.Millisecond)
	limiter.Stop()
	limiter.Stop()
	time.Sleep(30 * time.Millisecond)
}
