package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// DashboardService computes dashboard read models
type DashboardService interface {
	GetStats(ctx context.Context, r dashboard.DateRange) (*dashboard.Stats, error)
	GetChartData(ctx context.Context, g dashboard.Granularity, now time.Time) ([]dashboard.ChartPoint, error)
	GetRevenueByService(ctx context.Context, days int) (*dashboard.RevenueBreakdown, error)
}

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	service DashboardService
	now     func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

// Stats handles GET /api/dashboard/stats?from=&to=
func (h *DashboardHandler) Stats(c *gin.Context) {
	from, err := shared.ParseDateBound(c.Query("from"), false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	to, err := shared.ParseDateBound(c.Query("to"), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	stats, err := h.service.GetStats(c.Request.Context(), dashboard.DateRange{From: from, To: to})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Chart handles GET /api/dashboard/chart?granularity=daily|weekly|monthly
func (h *DashboardHandler) Chart(c *gin.Context) {
	g, err := dashboard.ParseGranularity(c.Query("granularity"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	points, err := h.service.GetChartData(c.Request.Context(), g, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, points)
}

// Revenue handles GET /api/dashboard/revenue?days=
func (h *DashboardHandler) Revenue(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.HandleError(c, shared.NewDomainError("INVALID_INPUT", "days must be an integer"))
			return
		}
		days = n
	}
	breakdown, err := h.service.GetRevenueByService(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}
