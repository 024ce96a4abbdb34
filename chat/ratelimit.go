package chat

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window counter shared by every caller: one global
// budget per window, no per-user keying. It deliberately acts as a simple
// service-wide circuit breaker in front of the paid upstream API.
//
// The limiter is approximate: a burst straddling a window boundary can pass
// up to twice the limit. That is a documented property of fixed windows,
// acceptable here.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	buckets map[int64]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count   int
	expires time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		limit:   limit,
		buckets: make(map[int64]*rateBucket),
		now:     time.Now,
	}
}

// Allow consumes one request slot. When the window's budget is spent it
// returns false and the instant the window expires, so callers can report
// "retry after".
func (rl *RateLimiter) Allow() (bool, time.Time) {
	now := rl.now()
	key := now.UnixMilli() / rl.window.Milliseconds()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.buckets[key]
	if !ok {
		// New window: drop every expired bucket so the map stays bounded.
		for k, b := range rl.buckets {
			if now.After(b.expires) {
				delete(rl.buckets, k)
			}
		}
		bucket = &rateBucket{
			expires: time.UnixMilli((key + 1) * rl.window.Milliseconds()),
		}
		rl.buckets[key] = bucket
	}

	if bucket.count >= rl.limit {
		return false, bucket.expires
	}
	bucket.count++
	return true, time.Time{}
}

// Reset clears all tracked windows.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.buckets = make(map[int64]*rateBucket)
}
