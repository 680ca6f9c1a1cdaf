package rest

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Buckets idle for bucketIdleTTL are dropped, checked at most once per
// pruneInterval.
const (
	bucketIdleTTL = 10 * time.Minute
	pruneInterval = time.Minute
)

// RateLimiter keeps one token bucket per client address. Buckets refill at
// rps tokens per second and hold at most rps tokens.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64
	now       func() time.Time
	lastPrune time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per client.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    float64(rps),
		now:     time.Now,
	}
}

// Allow consumes one token from the client's bucket if one is available.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) >= pruneInterval {
		rl.prune(now)
	}

	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.rate, lastRefill: now}
		rl.buckets[client] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.rate
	if b.tokens > rl.rate {
		b.tokens = rl.rate
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (rl *RateLimiter) prune(now time.Time) {
	for client, b := range rl.buckets {
		if now.Sub(b.lastRefill) >= bucketIdleTTL {
			delete(rl.buckets, client)
		}
	}
	rl.lastPrune = now
}

// Middleware rejects requests over the limit with 429. It runs after
// middleware.RealIP, so RemoteAddr already reflects the forwarded client.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
