package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetLimiter_SameClient(t *testing.T) {
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 5}, time.Minute)
	defer store.Close()

	first := store.GetLimiter("192.0.2.1")
	second := store.GetLimiter("192.0.2.1")

	assert.Same(t, first, second, "one limiter per client")
}

func TestStore_GetLimiter_SeparateClients(t *testing.T) {
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Minute)
	defer store.Close()

	first := store.GetLimiter("192.0.2.1")
	second := store.GetLimiter("192.0.2.2")

	assert.NotSame(t, first, second)

	// Exhausting one client's bucket leaves the other untouched
	assert.True(t, first.Allow())
	assert.False(t, first.Allow())
	assert.True(t, second.Allow())
}

func TestStore_EvictIdle(t *testing.T) {
	store := NewStore(Rate{RequestsPerSecond: 1, Burst: 1}, time.Hour)
	defer store.Close()

	limiter := store.GetLimiter("192.0.2.1")
	limiter.mu.Lock()
	limiter.lastAccess = time.Now().Add(-2 * maxIdle)
	limiter.mu.Unlock()

	store.evictIdle()

	replacement := store.GetLimiter("192.0.2.1")
	assert.NotSame(t, limiter, replacement, "idle limiter is replaced")
}
