package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
)

// ShipmentService is the back office shipment API
type ShipmentService interface {
	Create(ctx context.Context, req shipmentapp.ShipmentRequest) (*shipmentapp.ShipmentResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*shipmentapp.ShipmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req shipmentapp.ShipmentRequest) (*shipmentapp.ShipmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req shipmentapp.UpdateStatusRequest) (*shipmentapp.ShipmentResponse, error)
	AddEvent(ctx context.Context, id uuid.UUID, req shipmentapp.AddEventRequest) (*shipmentapp.TrackingEventResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, req shipmentapp.BulkDeleteRequest) (*shipmentapp.BulkDeleteResult, error)
	List(ctx context.Context, query shipmentapp.ListQuery) (*shipmentapp.ListResult, error)
	Export(ctx context.Context, req shipmentapp.ExportRequest) (*shipmentapp.ExportFile, error)
	World(ctx context.Context) (*shipmentapp.WorldResponse, error)
}

// ShipmentHandler handles shipment endpoints
type ShipmentHandler struct {
	BaseHandler
	service ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(service ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// List handles GET /api/shipments
func (h *ShipmentHandler) List(c *gin.Context) {
	var q shipmentapp.ListQuery
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

// Create handles POST /api/shipments
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req shipmentapp.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/shipments/:id
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PUT /api/shipments/:id
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shipmentapp.ShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /api/shipments/:id/status
func (h *ShipmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shipmentapp.UpdateStatusRequest
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

// AddEvent handles POST /api/shipments/:id/events
func (h *ShipmentHandler) AddEvent(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req shipmentapp.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	resp, err := h.service.AddEvent(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete handles DELETE /api/shipments/:id
func (h *ShipmentHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete handles POST /api/shipments/bulk-delete
func (h *ShipmentHandler) BulkDelete(c *gin.Context) {
	var req shipmentapp.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.service.BulkDelete(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Export handles POST /api/shipments/export. The body is optional.
func (h *ShipmentHandler) Export(c *gin.Context) {
	var req shipmentapp.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}
	file, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	if file.ArchiveKey != "" {
		c.Header("X-Archive-Key", file.ArchiveKey)
	}
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// World handles GET /api/shipments/world
func (h *ShipmentHandler) World(c *gin.Context) {
	resp, err := h.service.World(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
