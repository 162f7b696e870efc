package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(rps, burst, time.Minute)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestLimiter(t, 1, 3)
	rl.now = func() time.Time { return now }

	for i := range 3 {
		assert.True(t, rl.Allow("a"), "request %d", i)
	}
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refills per second")
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newTestLimiter(t, 1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(30 * time.Second)
	rl.Allow("fresh")
	now = now.Add(45 * time.Second)

	rl.cleanup()
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := newTestLimiter(t, 0.001, 2)

	router := gin.New()
	router.Use(RequestID(), RateLimit(rl))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := call()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call().Code)

	w = call()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
}

func TestRateLimitByKey(t *testing.T) {
	rl := newTestLimiter(t, 0.001, 1)

	router := gin.New()
	router.Use(RateLimitByKey(rl, func(c *gin.Context) string { return c.GetHeader("X-Key") }))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Key", key)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}
