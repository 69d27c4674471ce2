package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parcelco/backoffice/internal/infrastructure/logger"
)

// LiveSession runs a sequenced listing session over a websocket
type LiveSession interface {
	Serve(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// LiveHandler serves GET /api/admin/live
type LiveHandler struct {
	BaseHandler
	session LiveSession
	ctx     context.Context
}

// NewLiveHandler creates a new LiveHandler. Sessions end when ctx does.
func NewLiveHandler(ctx context.Context, session LiveSession) *LiveHandler {
	return &LiveHandler{session: session, ctx: ctx}
}

// Serve upgrades the connection and blocks until the session ends
func (h *LiveHandler) Serve(c *gin.Context) {
	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()
	ctx = logger.WithContext(ctx, logger.GetGinLogger(c))

	if err := h.session.Serve(ctx, c.Writer, c.Request); err != nil {
		logger.L(ctx).Debug("Live listing session ended", zap.Error(err))
	}
}
