package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	documentapp "github.com/parcelco/backoffice/internal/application/document"
	"github.com/parcelco/backoffice/internal/domain/document"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/infrastructure/printing"
	"github.com/parcelco/backoffice/internal/interfaces/http/dto"
)

// DocumentService renders receipts and waybills
type DocumentService interface {
	Receipt(ctx context.Context, r *document.Receipt, format documentapp.Format) (*documentapp.Output, error)
	Waybill(ctx context.Context, w *document.Waybill, format documentapp.Format) (*documentapp.Output, error)
	ForShipment(ctx context.Context, kind document.Kind, id uuid.UUID, format documentapp.Format) (*documentapp.Output, error)
}

// DocumentHandler serves printable documents
type DocumentHandler struct {
	BaseHandler
	service DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// format reads ?format=view|download|pdf; ?download=true is shorthand
func (h *DocumentHandler) format(c *gin.Context) (documentapp.Format, bool) {
	raw := c.Query("format")
	if raw == "" {
		if dl, _ := strconv.ParseBool(c.Query("download")); dl {
			raw = string(documentapp.FormatDownload)
		}
	}
	f, err := documentapp.ParseFormat(raw)
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return f, true
}

// ShipmentReceipt handles GET /api/shipments/:id/receipt
func (h *DocumentHandler) ShipmentReceipt(c *gin.Context) {
	h.forShipment(c, document.KindReceipt)
}

// ShipmentWaybill handles GET /api/shipments/:id/waybill
func (h *DocumentHandler) ShipmentWaybill(c *gin.Context) {
	h.forShipment(c, document.KindWaybill)
}

func (h *DocumentHandler) forShipment(c *gin.Context, kind document.Kind) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	format, ok := h.format(c)
	if !ok {
		return
	}
	out, err := h.service.ForShipment(c.Request.Context(), kind, id, format)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}
	writeDocument(c, out)
}

// Receipt handles POST /api/documents/receipt
func (h *DocumentHandler) Receipt(c *gin.Context) {
	var req documentapp.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	format, ok := h.format(c)
	if !ok {
		return
	}
	out, err := h.service.Receipt(c.Request.Context(), req.ToDomain(), format)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}
	writeDocument(c, out)
}

// Waybill handles POST /api/documents/waybill
func (h *DocumentHandler) Waybill(c *gin.Context) {
	var req documentapp.WaybillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	format, ok := h.format(c)
	if !ok {
		return
	}
	out, err := h.service.Waybill(c.Request.Context(), req.ToDomain(), format)
	if err != nil {
		h.handleRenderError(c, err)
		return
	}
	writeDocument(c, out)
}

func (h *DocumentHandler) handleRenderError(c *gin.Context, err error) {
	var renderErr *printing.RenderError
	if !errors.As(err, &renderErr) {
		h.HandleError(c, err)
		return
	}
	logger.L(c.Request.Context()).Error("Document rendering failed",
		zap.String("code", renderErr.Code),
		zap.Error(err),
	)
	if renderErr.Code == printing.ErrCodeRenderTimeout {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, "Document rendering timed out")
		return
	}
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Document rendering failed")
}

func writeDocument(c *gin.Context, out *documentapp.Output) {
	disposition := "inline"
	if out.Attachment {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+out.Filename+`"`)
	if out.ArchiveKey != "" {
		c.Header("X-Archive-Key", out.ArchiveKey)
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, out.ContentType, out.Body)
}
