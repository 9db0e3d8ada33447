package rate_limiter

import (
	"sync"
	"time"
)

// RateLimiter liczy próby w przesuwnym oknie czasowym per klucz klienta.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go rl.cleanupLoop()

	return rl
}

// cleanupLoop usuwa wpisy klientów, którzy przestali próbować
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key := range rl.attempts {
			if len(rl.prune(key)) == 0 {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) IsAllowed(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.prune(key)
	if len(valid) >= rl.limit {
		return false
	}

	rl.attempts[key] = append(valid, time.Now())
	return true
}

// GetRemainingRequests zwraca liczbę pozostałych prób dla danego klucza
func (rl *RateLimiter) GetRemainingRequests(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	remaining := rl.limit - len(rl.prune(key))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// prune zostawia tylko próby mieszczące się w oknie; wołać pod mutexem.
func (rl *RateLimiter) prune(key string) []time.Time {
	windowStart := time.Now().Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.attempts[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	rl.attempts[key] = valid

	return valid
}
