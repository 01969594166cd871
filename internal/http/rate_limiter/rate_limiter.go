package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors keeps one token bucket per client address.
type Visitors struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
}

// NewVisitors allows each client perSecond requests with bursts of burst.
func NewVisitors(perSecond float64, burst int) *Visitors {
	return &Visitors{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (v *Visitors) Get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(v.limit, v.burst)
		v.visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

// Allow takes a token from the client's bucket.
func (v *Visitors) Allow(ip string) bool {
	return v.Get(ip).Allow()
}

// Cleanup forgets clients idle for longer than maxIdle and returns how many
// were removed.
func (v *Visitors) Cleanup(maxIdle time.Duration) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for ip, c := range v.visitors {
		if time.Since(c.lastSeen) > maxIdle {
			delete(v.visitors, ip)
			removed++
		}
	}
	return removed
}

// StartCleanupLoop runs Cleanup every interval until ctx is done.
func (v *Visitors) StartCleanupLoop(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup(maxIdle)
		}
	}
}

func (v *Visitors) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visitors)
}
