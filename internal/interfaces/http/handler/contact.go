package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/parcelco/backoffice/internal/application/contact"
)

// ContactService handles contact submissions
type ContactService interface {
	Submit(ctx context.Context, req contactapp.SubmitRequest) (*contactapp.FormResponse, error)
	List(ctx context.Context, q contactapp.ListQuery) (*contactapp.ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req contactapp.UpdateStatusRequest) (*contactapp.FormResponse, error)
}

// ContactHandler handles contact form endpoints
type ContactHandler struct {
	BaseHandler
	service ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /api/contact
func (h *ContactHandler) List(c *gin.Context) {
	var q contactapp.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, result)
}

// UpdateStatus handles PATCH /api/contact/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req contactapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
