package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("funnels", "/funnels")
		assert.Equal(t, "funnels", g.Name())
		assert.Equal(t, "/funnels", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		NewDomainGroup("test", "/test").
			GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			PATCH("/items/:id", ok).
			DELETE("/items/:id", ok).
			RegisterRoutes(engine.Group("/api/v1"))

		for method, path := range map[string]string{
			http.MethodGet:    "/api/v1/test/items",
			http.MethodPost:   "/api/v1/test/items",
			http.MethodPut:    "/api/v1/test/items/1",
			http.MethodPatch:  "/api/v1/test/items/1",
			http.MethodDelete: "/api/v1/test/items/1",
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
	})

	t.Run("middleware reaches subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
			c.Header("X-Parent", "yes")
			c.Next()
		})
		g.Group("child", "/child").GET("/leaf", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/parent/child/leaf", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Parent"))
	})
}
