package ratelimit

import (
	"sync"
	"time"
)

// maxIdle is how long a limiter may go unused before the cleanup pass
// removes it.
const maxIdle = 10 * time.Minute

// Store keeps one limiter per client identity (normally the client IP) and
// evicts limiters that have been idle long enough to be irrelevant.
type Store struct {
	mu              sync.RWMutex
	limiters        map[string]*Limiter
	rate            Rate
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

// NewStore creates a limiter store and starts its background cleanup loop.
func NewStore(rate Rate, cleanupInterval time.Duration) *Store {
	store := &Store{
		limiters:        make(map[string]*Limiter),
		rate:            rate,
		cleanupInterval: cleanupInterval,
		stop:            make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

// GetLimiter returns the limiter for the given client, creating it on first
// sight.
func (s *Store) GetLimiter(clientID string) *Limiter {
	s.mu.RLock()
	limiter, ok := s.limiters[clientID]
	s.mu.RUnlock()

	if ok {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have created it between the locks
	if limiter, ok = s.limiters[clientID]; ok {
		return limiter
	}

	limiter = NewLimiter(s.rate.RequestsPerSecond, s.rate.Burst)
	s.limiters[clientID] = limiter
	return limiter
}

// Close stops the background cleanup loop.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stop:
			return
		}
	}
}

// evictIdle drops limiters that have not been touched within maxIdle. An
// evicted client simply gets a fresh, full bucket on its next request.
func (s *Store) evictIdle() {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	for clientID, limiter := range s.limiters {
		if limiter.idleSince().Before(cutoff) {
			delete(s.limiters, clientID)
		}
	}
}
