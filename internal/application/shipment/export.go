package shipment

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Shipments"
)

// Archiver stores generated files in long-term storage
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, body []byte) error
}

// ExportFile is a generated export ready to download
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
	ArchiveKey  string
}

var exportHeader = []string{
	"Tracking Number", "Status", "Sender", "Sender City", "Sender Country",
	"Receiver", "Receiver City", "Receiver Country", "Service ID",
	"Weight (kg)", "Pieces", "Declared Value", "Estimated Cost", "Currency",
	"Payment Mode", "Payment Status", "Current Location",
	"Created At", "Estimated Delivery", "Actual Delivery",
}

func exportRecord(s *shipment.Shipment) []string {
	return []string{
		s.TrackingNumber, string(s.Status),
		s.Sender.Name, s.Sender.City, s.Sender.Country,
		s.Receiver.Name, s.Receiver.City, s.Receiver.Country,
		s.ServiceID.String(),
		s.Weight.String(), strconv.Itoa(s.Pieces),
		s.DeclaredValue.StringFixed(2), s.EstimatedCost.StringFixed(2), s.Currency,
		string(s.PaymentMode), string(s.PaymentStatus), s.CurrentLocation,
		s.CreatedAt.UTC().Format(time.RFC3339),
		formatOptionalTime(s.EstimatedDelivery),
		formatOptionalTime(s.ActualDelivery),
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// guardFormula neutralises cells a spreadsheet would evaluate as a formula
func guardFormula(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@':
		return "'" + v
	}
	return v
}

// Export renders the shipments matching the request as CSV (default) or
// XLSX, capped at shipment.MaxExportRows rows
func (s *ShipmentService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, shared.NewDomainError("INVALID_FORMAT", "Export format must be csv or xlsx")
	}

	filter, err := req.ToFilter()
	if err != nil {
		return nil, err
	}
	rows, err := s.shipments.FindForExport(ctx, filter, shipment.MaxExportRows)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename: fmt.Sprintf("shipments-%s.%s", time.Now().UTC().Format("20060102-150405"), format),
		Rows:     len(rows),
	}
	switch format {
	case FormatXLSX:
		file.ContentType = contentTypeXLSX
		file.Body, err = writeXLSX(rows)
	default:
		file.ContentType = contentTypeCSV
		file.Body, err = writeCSV(rows)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	if s.archiver != nil {
		key := "exports/" + file.Filename
		if err := s.archiver.Archive(ctx, key, file.ContentType, file.Body); err != nil {
			logger.L(ctx).Warn("Failed to archive export", zap.String("key", key), zap.Error(err))
		} else {
			file.ArchiveKey = key
		}
	}
	return file, nil
}

func writeCSV(rows []shipment.Shipment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range rows {
		record := exportRecord(&rows[i])
		for j := range record {
			record[j] = guardFormula(record[j])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeXLSX(rows []shipment.Shipment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return nil, err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i := range rows {
		s := &rows[i]
		record := exportRecord(s)
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		// numeric columns stay numeric
		row[9] = s.Weight.InexactFloat64()
		row[10] = s.Pieces
		row[11] = s.DeclaredValue.InexactFloat64()
		row[12] = s.EstimatedCost.InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
