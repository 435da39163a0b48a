package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRateLimiterStore struct {
	counts map[string]int64
}

func newStubRateLimiterStore() *stubRateLimiterStore {
	return &stubRateLimiterStore{counts: map[string]int64{}}
}

func (s *stubRateLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func loginRequest(email, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestAuthRateLimit_AllowsUnderLimit(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 3)
	var gotBody string
	handler := AuthRateLimit(policy, store, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("owner@acme.com", "10.0.0.1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request allowed, got %d", rec.Code)
	}
	if !strings.Contains(gotBody, "owner@acme.com") {
		t.Fatalf("expected body preserved for downstream handler, got %q", gotBody)
	}
}

func TestAuthRateLimit_BlocksEmailAfterLimit(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 3)
	handler := AuthRateLimit(policy, store, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		last = httptest.NewRecorder()
		// Same email from rotating IPs still trips the email counter.
		handler.ServeHTTP(last, loginRequest("target@acme.com", "10.0.0."+string(rune('1'+i))))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after email limit, got %d", last.Code)
	}
}

func TestAuthRateLimit_BlocksIPAfterLimit(t *testing.T) {
	store := newStubRateLimiterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, loginRequest("anyone@acme.com", "10.0.0.9"))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after ip limit, got %d", last.Code)
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 5, 5)
	handler := AuthRateLimit(policy, newStubRateLimiterStore(), testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("owner@acme.com", "10.0.0.1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through with zero window, got %d", rec.Code)
	}
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected first forwarded ip, got %q", ip)
	}

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.4")
	if ip := clientIP(req); ip != "198.51.100.4" {
		t.Fatalf("expected real ip header, got %q", ip)
	}

	req.Header.Del("X-Real-IP")
	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Fatalf("expected remote addr host, got %q", ip)
	}
}
