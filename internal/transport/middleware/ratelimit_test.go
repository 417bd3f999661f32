package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doFrom(h http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/words/classify/kids", nil)
	req.RemoteAddr = addr
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 10, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	for i := 0; i < 10; i++ {
		rec := doFrom(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i)
	}
}

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 5, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doFrom(handler, "1.2.3.4:1234").Code)
	}

	rec := doFrom(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimiter_SameIPDifferentPorts(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, doFrom(handler, "1.1.1.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "1.1.1.1:2000").Code)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		doFrom(handler, "1.1.1.1:1234")
	}

	assert.Equal(t, http.StatusOK, doFrom(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := NewRateLimiter(20, 1, time.Minute)
	defer rl.Stop()

	handler := rl.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, doFrom(handler, "1.2.3.4:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "1.2.3.4:1234").Code)

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, http.StatusOK, doFrom(handler, "1.2.3.4:1234").Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Hour)
	defer rl.Stop()

	rl.limiter("1.1.1.1")
	rl.limiter("2.2.2.2")
	rl.clients["1.1.1.1"].lastSeen = time.Now().Add(-2 * idleTTL)

	rl.evictIdle(time.Now())

	assert.NotContains(t, rl.clients, "1.1.1.1")
	assert.Contains(t, rl.clients, "2.2.2.2")
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
