package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/document"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// Format selects how a document is delivered
type Format string

const (
	FormatView     Format = "view"
	FormatDownload Format = "download"
	FormatPDF      Format = "pdf"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypePDF  = "application/pdf"
)

// ParseFormat parses a delivery format; empty means view
func ParseFormat(v string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(v)))
	switch f {
	case "":
		return FormatView, nil
	case FormatView, FormatDownload, FormatPDF:
		return f, nil
	}
	return "", shared.NewDomainError("INVALID_FORMAT", "Format must be view, download or pdf")
}

// Renderer turns document data into an HTML page
type Renderer interface {
	RenderReceipt(ctx context.Context, r *document.Receipt) ([]byte, error)
	RenderWaybill(ctx context.Context, w *document.Waybill) ([]byte, error)
}

// Archiver stores a copy of generated files
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, body []byte) error
}

// DocumentService renders receipts and waybills
type DocumentService struct {
	shipments shipment.ShipmentRepository
	services  shipment.ServiceRepository
	renderer  Renderer
	pdf       printing.PDFRenderer
	archiver  Archiver
	now       func() time.Time
}

// NewDocumentService creates a new DocumentService. pdf and archiver may be
// nil; PDF output is then unavailable and nothing is archived.
func NewDocumentService(
	shipments shipment.ShipmentRepository,
	services shipment.ServiceRepository,
	renderer Renderer,
	pdf printing.PDFRenderer,
	archiver Archiver,
) *DocumentService {
	return &DocumentService{
		shipments: shipments,
		services:  services,
		renderer:  renderer,
		pdf:       pdf,
		archiver:  archiver,
		now:       time.Now,
	}
}

// Receipt renders supplied receipt data
func (s *DocumentService) Receipt(ctx context.Context, r *document.Receipt, format Format) (*Output, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	html, err := s.renderer.RenderReceipt(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, document.KindReceipt, r.TrackingNumber, html, format)
}

// Waybill renders supplied waybill data
func (s *DocumentService) Waybill(ctx context.Context, w *document.Waybill, format Format) (*Output, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	html, err := s.renderer.RenderWaybill(ctx, w)
	if err != nil {
		return nil, err
	}
	return s.deliver(ctx, document.KindWaybill, w.TrackingNumber, html, format)
}

// ForShipment builds the document of the given kind from a stored shipment
func (s *DocumentService) ForShipment(ctx context.Context, kind document.Kind, id uuid.UUID, format Format) (*Output, error) {
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	svc, err := s.services.FindByID(ctx, sh.ServiceID)
	if err != nil {
		logger.L(ctx).Warn("Service missing for shipment document",
			zap.String("shipment_id", id.String()),
			zap.Error(err),
		)
		svc = nil
	}

	switch kind {
	case document.KindReceipt:
		return s.Receipt(ctx, document.ReceiptFromShipment(sh, svc, s.now()), format)
	case document.KindWaybill:
		return s.Waybill(ctx, document.WaybillFromShipment(sh, svc), format)
	}
	return nil, shared.NewDomainError("INVALID_INPUT", "Unknown document kind: "+string(kind))
}

// PDFEnabled reports whether PDF output is available
func (s *DocumentService) PDFEnabled() bool {
	return s.pdf != nil
}

func (s *DocumentService) deliver(ctx context.Context, kind document.Kind, trackingNumber string, html []byte, format Format) (*Output, error) {
	switch format {
	case FormatView:
		return &Output{
			Filename:    document.Filename(kind, trackingNumber, "html"),
			ContentType: contentTypeHTML,
			Body:        html,
		}, nil
	case FormatDownload:
		out := &Output{
			Filename:    document.Filename(kind, trackingNumber, "html"),
			ContentType: contentTypeHTML,
			Attachment:  true,
			Body:        html,
		}
		s.archive(ctx, kind, out)
		return out, nil
	case FormatPDF:
		if s.pdf == nil {
			return nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not enabled")
		}
		res, err := s.pdf.Render(ctx, &printing.RenderRequest{
			HTML:  string(html),
			Title: strings.ToUpper(string(kind)) + " " + trackingNumber,
		})
		if err != nil {
			return nil, err
		}
		out := &Output{
			Filename:    document.Filename(kind, trackingNumber, "pdf"),
			ContentType: contentTypePDF,
			Attachment:  true,
			Body:        res.PDFData,
		}
		s.archive(ctx, kind, out)
		return out, nil
	}
	return nil, shared.NewDomainError("INVALID_FORMAT", "Format must be view, download or pdf")
}

// archive stores a copy of the download; failures are logged only
func (s *DocumentService) archive(ctx context.Context, kind document.Kind, out *Output) {
	if s.archiver == nil {
		return
	}
	key := "documents/" + string(kind) + "/" + s.now().UTC().Format("2006/01/02") + "/" + out.Filename
	if err := s.archiver.Archive(ctx, key, out.ContentType, out.Body); err != nil {
		logger.L(ctx).Warn("Failed to archive document",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	out.ArchiveKey = key
}
