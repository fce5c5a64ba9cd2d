package httpserver

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterRegistry holds one token bucket per client IP.
type limiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      int
}

func newLimiterRegistry(rps int) *limiterRegistry {
	return &limiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// get returns the limiter for ip, creating it on first use.
func (r *limiterRegistry) get(ip string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[ip]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(r.rps), r.rps)
	r.limiters[ip] = limiter

	return limiter
}

func (r *limiterRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limiters)
}
