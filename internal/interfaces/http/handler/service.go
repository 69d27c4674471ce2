package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
)

// CatalogService manages shipping services
type CatalogService interface {
	List(ctx context.Context, activeOnly bool) ([]shipmentapp.ServiceResponse, error)
	Create(ctx context.Context, req shipmentapp.ServiceRequest) (*shipmentapp.ServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req shipmentapp.ServiceRequest) (*shipmentapp.ServiceResponse, error)
}

// ServiceHandler handles shipping service endpoints
type ServiceHandler struct {
	BaseHandler
	catalog CatalogService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(catalog CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// ListActive handles GET /api/services
func (h *ServiceHandler) ListActive(c *gin.Context) {
	h.list(c, true)
}

// ListAll handles GET /api/admin/services, inactive services included
func (h *ServiceHandler) ListAll(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	h.list(c, activeOnly)
}

func (h *ServiceHandler) list(c *gin.Context, activeOnly bool) {
	services, err := h.catalog.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if services == nil {
		services = []shipmentapp.ServiceResponse{}
	}
	h.Success(c, services)
}

// Create handles POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	var req shipmentapp.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shipmentapp.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.catalog.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
