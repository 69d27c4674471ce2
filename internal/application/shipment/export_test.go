package shipment

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type archiveCall struct {
	key, contentType string
	size             int
}

type fakeArchiver struct {
	calls []archiveCall
	err   error
}

func (a *fakeArchiver) Archive(_ context.Context, key, contentType string, body []byte) error {
	a.calls = append(a.calls, archiveCall{key, contentType, len(body)})
	return a.err
}

func TestGuardFormula(t *testing.T) {
	tests := map[string]string{
		"=HYPERLINK(\"x\")": "'=HYPERLINK(\"x\")",
		"+1":                "'+1",
		"-2":                "'-2",
		"@SUM(A1)":          "'@SUM(A1)",
		"Lagos":             "Lagos",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, guardFormula(in), in)
	}
}

func TestShipmentService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("csv escapes formulas and caps rows", func(t *testing.T) {
		f := newFixture()
		s := newStoredShipment(t, uuid.New())
		s.Receiver.Name = "=cmd|' /C calc'!A0"
		f.shipments.On("FindForExport", ctx, mock.Anything, shipment.MaxExportRows).
			Return([]shipment.Shipment{*s}, nil)

		file, err := f.service.Export(ctx, ExportRequest{})

		require.NoError(t, err)
		assert.Equal(t, contentTypeCSV, file.ContentType)
		assert.Regexp(t, `^shipments-\d{8}-\d{6}\.csv$`, file.Filename)
		assert.Equal(t, 1, file.Rows)

		records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, exportHeader, records[0])
		assert.Equal(t, s.TrackingNumber, records[1][0])
		assert.Equal(t, "'=cmd|' /C calc'!A0", records[1][5])
	})

	t.Run("xlsx", func(t *testing.T) {
		f := newFixture()
		s := newStoredShipment(t, uuid.New())
		f.shipments.On("FindForExport", ctx, mock.Anything, shipment.MaxExportRows).
			Return([]shipment.Shipment{*s}, nil)

		file, err := f.service.Export(ctx, ExportRequest{Format: "xlsx"})

		require.NoError(t, err)
		assert.Equal(t, contentTypeXLSX, file.ContentType)

		book, err := excelize.OpenReader(bytes.NewReader(file.Body))
		require.NoError(t, err)
		defer book.Close()
		rows, err := book.GetRows(exportSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, s.TrackingNumber, rows[1][0])
		assert.Equal(t, "4", rows[1][9])
	})

	t.Run("archives when configured", func(t *testing.T) {
		f := newFixture()
		arch := &fakeArchiver{}
		f.service.SetArchiver(arch)
		f.shipments.On("FindForExport", ctx, mock.Anything, mock.Anything).Return([]shipment.Shipment{}, nil)

		file, err := f.service.Export(ctx, ExportRequest{})

		require.NoError(t, err)
		require.Len(t, arch.calls, 1)
		assert.Equal(t, "exports/"+file.Filename, arch.calls[0].key)
		assert.Equal(t, arch.calls[0].key, file.ArchiveKey)
	})

	t.Run("archive failure still returns the file", func(t *testing.T) {
		f := newFixture()
		f.service.SetArchiver(&fakeArchiver{err: errors.New("s3 unavailable")})
		f.shipments.On("FindForExport", ctx, mock.Anything, mock.Anything).Return([]shipment.Shipment{}, nil)

		file, err := f.service.Export(ctx, ExportRequest{})

		require.NoError(t, err)
		assert.Empty(t, file.ArchiveKey)
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.Export(ctx, ExportRequest{Format: "pdf"})

		assert.Error(t, err)
	})
}
