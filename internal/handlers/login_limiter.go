package handlers

import (
	"sync"
	"time"
)

// loginLimiter throttles failed login attempts per email to keep credential
// stuffing from hammering bcrypt. Successes clear the slate.
type loginLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	max      int
	failures map[string][]time.Time
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		window:   window,
		max:      max,
		failures: make(map[string][]time.Time),
	}
}

func (l *loginLimiter) blocked(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.recent(email)) >= l.max
}

func (l *loginLimiter) recordFailure(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures[email] = append(l.recent(email), time.Now())
}

func (l *loginLimiter) reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, email)
}

// recent prunes entries outside the window. Callers must hold the lock.
func (l *loginLimiter) recent(email string) []time.Time {
	cutoff := time.Now().Add(-l.window)
	kept := l.failures[email][:0]
	for _, at := range l.failures[email] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	l.failures[email] = kept
	return kept
}
