package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	newRouter := func(limit int64) *gin.Engine {
		router := gin.New()
		router.Use(RequestID(), BodyLimit(limit))
		router.POST("/test", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("allows request within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(1024).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader([]byte("small body"))))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), "request_id")
	})

	t.Run("cuts off streamed bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter(50).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero disables the limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(0).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 5000))))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
