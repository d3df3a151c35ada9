package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	limit     int
	per       time.Duration
	now       func() time.Time
	buckets   map[string]*bucket
	nextSweep time.Time
}

func newRateLimiter(limit int, per time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		per:     per,
		now:     now,
		buckets: make(map[string]*bucket),
	}
}

// allow counts one request for key and reports whether it fits the current
// window. Expired windows are dropped at most once per period.
func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.After(b.until) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(l.per)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.until) {
		b = &bucket{until: now.Add(l.per)}
		l.buckets[key] = b
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// RateLimit applies a fixed-window limit per client IP, taken from
// r.RemoteAddr. Forwarding headers are only honoured when a trusted proxy
// middleware has already rewritten RemoteAddr. A non-positive limit disables
// the middleware.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := newRateLimiter(limit, per, time.Now)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientIPForRateLimit(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests. Please try again later."}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
