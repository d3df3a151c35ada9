package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPForRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded header ignored",
			header:     "203.0.113.1",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "remote host",
			header:     "",
			remoteAddr: "198.51.100.10:1234",
			want:       "198.51.100.10",
		},
		{
			name:       "ipv6 remote",
			header:     "2001:db8::1",
			remoteAddr: net.JoinHostPort("2001:db8::2", "443"),
			want:       "2001:db8::2",
		},
		{
			name:       "remote without port",
			header:     "invalid",
			remoteAddr: "203.0.113.1",
			want:       "203.0.113.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := clientIPForRateLimit(req); got != tc.want {
				t.Fatalf("clientIPForRateLimit() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitIgnoresRotatedForwardedFor(t *testing.T) {
	calls := 0
	handler := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.RemoteAddr = "198.51.100.10:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	if calls != 1 || limited != 19 {
		t.Fatalf("calls = %d, limited = %d; want 1 and 19", calls, limited)
	}
}

func TestRateLimiterSweepsExpiredBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(1, time.Minute, func() time.Time { return now })

	for i := 0; i < 100; i++ {
		if !limiter.allow(fmt.Sprintf("10.0.0.%d", i)) {
			t.Fatalf("first request for client %d rejected", i)
		}
	}
	if len(limiter.buckets) != 100 {
		t.Fatalf("buckets = %d, want 100", len(limiter.buckets))
	}

	now = now.Add(2 * time.Minute)
	if !limiter.allow("198.51.100.10") {
		t.Fatal("new client rejected")
	}
	if len(limiter.buckets) != 1 {
		t.Fatalf("buckets after sweep = %d, want 1", len(limiter.buckets))
	}
	if !limiter.allow("10.0.0.1") {
		t.Fatal("expired client still limited")
	}
}

func TestRateLimit(t *testing.T) {
	calls := 0
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	statuses := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.RemoteAddr = "198.51.100.10:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		statuses = append(statuses, rr.Code)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK || statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("statuses = %v", statuses)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	other := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	other.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", rr.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	calls := 0
	handler := RateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 50 {
		t.Fatalf("calls = %d, want 50", calls)
	}
}
