// Package guard holds request throttling for the HTTP surface. Limits are
// fixed-window: a window opens on the first request for a key and every
// request inside it counts against the limit, denied or not.
package guard

import (
	"sync"
	"time"
)

const (
	idleEvictAfter = 5 * time.Minute
	sweepEvery     = time.Minute
)

// Decision is the outcome of a rate-limit check. RetryAfter carries the
// whole seconds until the window resets and is only set when denied.
type Decision struct {
	Allowed    bool
	RetryAfter int
}

type window struct {
	start time.Time
	count int
	last  time.Time
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*window
	limit     int
	interval  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Check records a request for the key and reports whether it is allowed.
func (rl *RateLimiter) Check(key string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.interval {
		w = &window{start: now}
		rl.windows[key] = w
	}
	w.last = now
	w.count++

	if w.count > rl.limit {
		return Decision{Allowed: false, RetryAfter: retryAfter(w.start.Add(rl.interval).Sub(now))}
	}
	return Decision{Allowed: true}
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < sweepEvery {
		return
	}
	rl.lastSweep = now
	for key, w := range rl.windows {
		if now.Sub(w.last) >= idleEvictAfter {
			delete(rl.windows, key)
		}
	}
}

func retryAfter(remaining time.Duration) int {
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
