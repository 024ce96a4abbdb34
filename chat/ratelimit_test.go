package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 10)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		ok, _ := rl.Allow()
		require.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retryAt := rl.Allow()
	assert.False(t, ok, "11th request in the window must be rejected")
	assert.False(t, retryAt.Before(now), "reported expiry must not be before now")
}

func TestRateLimiterNewWindowResetsBudget(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 2)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, _ := rl.Allow()
		require.True(t, ok)
	}
	ok, _ := rl.Allow()
	require.False(t, ok)

	now = now.Add(time.Minute + time.Second)
	ok, _ = rl.Allow()
	assert.True(t, ok, "new window starts a fresh budget")
}

func TestRateLimiterCleansExpiredBuckets(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 5)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow()
	now = now.Add(2 * time.Minute)
	rl.Allow()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.buckets, 1, "expired bucket should be dropped on new window")
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 50)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := rl.Allow(); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The window boundary can split the burst across two buckets, so up to
	// twice the limit may pass. Never more.
	assert.GreaterOrEqual(t, allowed, 50)
	assert.LessOrEqual(t, allowed, 100)
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	ok, _ := rl.Allow()
	require.True(t, ok)
	ok, _ = rl.Allow()
	require.False(t, ok)

	rl.Reset()
	ok, _ = rl.Allow()
	assert.True(t, ok)
}
