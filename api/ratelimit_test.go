package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestRateLimitHandler_AllowsWithinBurst(t *testing.T) {
	rl := NewClientRateLimiter(rate.Limit(1), 2)
	handler := RateLimitHandler(rl, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 past burst, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimitHandler_ClientsAreIndependent(t *testing.T) {
	rl := NewClientRateLimiter(rate.Limit(1), 1)
	handler := RateLimitHandler(rl, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(httptest.NewRecorder(), first)

	rec := httptest.NewRecorder()
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Errorf("second client must have its own budget, got %d", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	newReq := func() *http.Request {
		return httptest.NewRequest(http.MethodGet, "/", nil)
	}

	r := newReq()
	r.Header.Set("Authorization", "Bearer token-a")
	if got := clientKey(r); got != "Bearer token-a" {
		t.Errorf("credential must win: %q", got)
	}

	r = newReq()
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientKey(r); got != "203.0.113.9" {
		t.Errorf("first forwarded hop must win: %q", got)
	}

	r = newReq()
	r.Header.Set("X-Real-IP", "203.0.113.10")
	if got := clientKey(r); got != "203.0.113.10" {
		t.Errorf("X-Real-IP fallback: %q", got)
	}

	r = newReq()
	r.RemoteAddr = "198.51.100.7:4567"
	if got := clientKey(r); got != "198.51.100.7" {
		t.Errorf("remote addr fallback must strip the port: %q", got)
	}
}
