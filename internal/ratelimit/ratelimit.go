// Package ratelimit provides per-identity sliding-window admission control for
// the expensive upstream inference call.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is the trailing window the limiter considers.
	DefaultWindow = 60 * time.Second
	// DefaultLimit is the number of admissions allowed per identity per window.
	DefaultLimit = 10
)

// Limiter tracks admission timestamps per identity over a trailing window.
// State lives in process memory only; a restart resets all quotas. That is a
// documented limitation of the single-process deployment, not a bug.
type Limiter struct {
	now     func() time.Time
	windows map[string][]time.Time
	window  time.Duration
	limit   int
	mu      sync.Mutex
}

// NewLimiter creates a limiter with the given window and quota. Non-positive
// values fall back to the defaults.
func NewLimiter(window time.Duration, limit int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{
		windows: make(map[string][]time.Time),
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
}

// Allow decides whether one more request from identity may proceed. Stale
// entries are pruned on every check, then the request is admitted and recorded
// only if the remaining count is under the quota. Denied requests are not
// recorded. Unknown identities start with an empty window.
func (l *Limiter) Allow(identity string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamps := l.windows[identity]
	live := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= l.limit {
		l.windows[identity] = live
		return false
	}

	l.windows[identity] = append(live, now)
	return true
}

// Prune drops identities whose windows have fully expired so the map does not
// grow without bound under high identity cardinality.
func (l *Limiter) Prune() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for identity, timestamps := range l.windows {
		live := timestamps[:0]
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				live = append(live, ts)
			}
		}
		if len(live) == 0 {
			delete(l.windows, identity)
		} else {
			l.windows[identity] = live
		}
	}
}

// Window returns the configured window duration, used by the HTTP boundary to
// emit a Retry-After hint.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Limit returns the configured per-window quota.
func (l *Limiter) Limit() int {
	return l.limit
}
