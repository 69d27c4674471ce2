package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/parcelco/backoffice/internal/interfaces/http/dto"
)

// Pinger is a dependency the health check probes
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves health and public configuration
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]Pinger
	mapsKey   string
	baseURL   string
}

// NewSystemHandler creates a new SystemHandler. checks maps a component
// name to its probe.
func NewSystemHandler(name, version, mapsKey, baseURL string, checks map[string]Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		mapsKey:   mapsKey,
		baseURL:   baseURL,
	}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status     string            `json:"status"`
	Name       string            `json:"name"`
	Version    string            `json:"version"`
	GoVersion  string            `json:"go_version"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components,omitempty"`
}

// Health probes every dependency concurrently. Any failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	results := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
		results = append(results, "")
	}

	var eg errgroup.Group
	for i, name := range names {
		p := h.checks[name]
		eg.Go(func() error {
			if err := p.Ping(ctx); err != nil {
				results[i] = "down: " + err.Error()
				return err
			}
			results[i] = "up"
			return nil
		})
	}
	err := eg.Wait()

	resp := HealthResponse{
		Status:    "healthy",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if len(names) > 0 {
		resp.Components = make(map[string]string, len(names))
		for i, name := range names {
			resp.Components[name] = results[i]
		}
	}
	if err != nil {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}

// PublicConfig is what the public site needs to render maps and links
type PublicConfig struct {
	MapsAPIKey string `json:"maps_api_key"`
	BaseURL    string `json:"base_url"`
}

// GetPublicConfig handles GET /api/public-config
func (h *SystemHandler) GetPublicConfig(c *gin.Context) {
	h.Success(c, PublicConfig{MapsAPIKey: h.mapsKey, BaseURL: h.baseURL})
}
