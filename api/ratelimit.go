package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cinevault/internal/auth"
)

// clientLimiterEntry holds a rate limiter and last-seen timestamp for cleanup.
type clientLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter manages per-client rate limiters. Authenticated requests
// are keyed by their credential so every caller behind a shared proxy gets
// its own budget; anonymous requests fall back to the client IP.
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiterEntry
	rate     rate.Limit
	burst    int
}

// NewClientRateLimiter creates a limiter allowing r events per second with
// the given burst size.
func NewClientRateLimiter(r rate.Limit, burst int) *ClientRateLimiter {
	rl := &ClientRateLimiter{
		limiters: make(map[string]*clientLimiterEntry),
		rate:     r,
		burst:    burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *ClientRateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = &clientLimiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanup evicts entries not seen in the last 10 minutes.
func (rl *ClientRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for key, entry := range rl.limiters {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

// clientKey picks the limiter key: credential first, then forwarded IP,
// then the remote address.
func clientKey(r *http.Request) string {
	if bearer := auth.BearerFromHeader(r); bearer != "" {
		return bearer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// RateLimitHandler wraps an http.Handler with per-client rate limiting.
// Returns 429 Too Many Requests when the limit is exceeded.
func RateLimitHandler(rl *ClientRateLimiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.getLimiter(clientKey(r))
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
