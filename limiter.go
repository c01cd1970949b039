package folio

import (
	"sync"
	"time"
)

// ContactLimiter rate-limits contact submissions per IP address.
type ContactLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewContactLimiter creates a ContactLimiter that allows max submissions per
// window. Call Stop to end its cleanup goroutine.
func NewContactLimiter(max int, window time.Duration) *ContactLimiter {
	l := &ContactLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *ContactLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *ContactLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := prune(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Allow is Reserve for callers that never give an attempt back.
func (l *ContactLimiter) Allow(ip string) bool {
	return l.Reserve(ip)
}

// Reserve records an attempt for ip if it is under the limit and reports
// whether it did. The check and the record happen under one lock, so
// concurrent submissions from one address cannot overshoot max.
func (l *ContactLimiter) Reserve(ip string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := prune(l.attempts[ip], cutoff)
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, now)
	return true
}

// Release gives back the most recent reservation for ip, for attempts that
// should not count against the limit.
func (l *ContactLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.attempts[ip]
	switch len(hits) {
	case 0:
	case 1:
		delete(l.attempts, ip)
	default:
		l.attempts[ip] = hits[:len(hits)-1]
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
