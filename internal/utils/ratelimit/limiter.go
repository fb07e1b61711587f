// Package ratelimit implements token bucket rate limiting for the credential
// endpoints (login, registration, password reset requests).
package ratelimit

import (
	"sync"
	"time"
)

// Rate controls how many requests per second are allowed
type Rate struct {
	// RequestsPerSecond defines how many tokens are added per second
	RequestsPerSecond float64

	// Burst defines the maximum size of the token bucket
	Burst int
}

// Limiter is a token bucket for a single client. Tokens refill at a fixed
// rate up to the bucket capacity; each request consumes one token.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	rate       float64
	capacity   float64
	lastRefill time.Time
	lastAccess time.Time
}

// NewLimiter creates a limiter that starts with a full bucket.
func NewLimiter(rate float64, burst int) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(burst),
		rate:       rate,
		capacity:   float64(burst),
		lastRefill: now,
		lastAccess: now,
	}
}

// Allow reports whether a request should be admitted, consuming a token when
// it is.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now
	l.lastAccess = now

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// idleSince reports the last time the limiter admitted or rejected a request.
func (l *Limiter) idleSince() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastAccess
}

// Reset refills the bucket. Used by tests.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = l.capacity
	l.lastRefill = time.Now()
}
