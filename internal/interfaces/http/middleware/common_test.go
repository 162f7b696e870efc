package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("empty whitelist sets no CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://malicious.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://some-origin.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestCORSWithConfig(t *testing.T) {
	newRouter := func(cfg CORSConfig) *gin.Engine {
		router := gin.New()
		router.Use(CORSWithConfig(cfg))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}
	get := func(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/test", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allows listed origins", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"http://localhost:3000", "https://app.lumio.io"}
		router := newRouter(cfg)

		w := get(router, http.MethodGet, "https://app.lumio.io")
		assert.Equal(t, "https://app.lumio.io", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))

		w = get(router, http.MethodGet, "http://evil.com")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		router := newRouter(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		})

		w := get(router, http.MethodGet, "http://any.com")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from allowed origin carries methods", func(t *testing.T) {
		router := newRouter(CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "PUT"},
			AllowHeaders: []string{"Authorization"},
		})

		w := get(router, http.MethodOptions, "http://localhost:3000")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, PUT", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "test-request-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "test-request-id", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "test-request-id", w.Body.String())
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		long := strings.Repeat("a", MaxRequestIDLength+1)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, long)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, long, w.Body.String())
		assert.Len(t, w.Body.String(), 36)
	})
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}
