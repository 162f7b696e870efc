package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumio/backend/internal/interfaces/http/dto"
	"golang.org/x/sync/errgroup"
)

// HealthCheck is one dependency probe, e.g. a database or Redis ping
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health and version information
type SystemHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
}

// NewSystemHandler creates a SystemHandler
func NewSystemHandler(version string, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{version: version, startTime: time.Now(), checks: checks}
}

// HealthResponse reports service and dependency status
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health probes every dependency concurrently; any failure answers 503
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	errs := make([]error, len(h.checks))
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	var eg errgroup.Group
	for i, name := range names {
		check := h.checks[name]
		eg.Go(func() error {
			errs[i] = check(ctx)
			return nil
		})
	}
	_ = eg.Wait()

	status, code := "ok", http.StatusOK
	for i, name := range names {
		if errs[i] != nil {
			results[name] = errs[i].Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	resp := HealthResponse{
		Status:    status,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    results,
	}
	if code != http.StatusOK {
		c.JSON(code, dto.Response{Success: false, Data: resp})
		return
	}
	c.JSON(code, dto.NewSuccessResponse(resp))
}
