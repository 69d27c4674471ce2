package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
)

// Tracker looks up the public view of a shipment
type Tracker interface {
	Track(ctx context.Context, trackingNumber string) (*shipmentapp.TrackingView, error)
}

// LiveTracker streams updates for one tracking number
type LiveTracker interface {
	Serve(w http.ResponseWriter, r *http.Request, trackingNumber string) error
}

// TrackingHandler serves public tracking
type TrackingHandler struct {
	BaseHandler
	tracker Tracker
	live    LiveTracker
}

// NewTrackingHandler creates a new TrackingHandler. A nil live tracker
// disables the websocket endpoint.
func NewTrackingHandler(tracker Tracker, live LiveTracker) *TrackingHandler {
	return &TrackingHandler{tracker: tracker, live: live}
}

// Track handles GET /api/tracking/:number
func (h *TrackingHandler) Track(c *gin.Context) {
	view, err := h.tracker.Track(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Live handles GET /api/tracking/:number/live. Unknown numbers are rejected
// before the upgrade.
func (h *TrackingHandler) Live(c *gin.Context) {
	if h.live == nil {
		h.Error(c, http.StatusNotFound, "ERR_NOT_FOUND", "Live tracking is not enabled")
		return
	}
	view, err := h.tracker.Track(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.live.Serve(c.Writer, c.Request, view.TrackingNumber); err != nil {
		logger.GetGinLogger(c).Debug("Live tracking session ended", zap.Error(err))
	}
}
