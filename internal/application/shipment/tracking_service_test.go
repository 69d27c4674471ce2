package shipment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackingService_Track(t *testing.T) {
	ctx := context.Background()

	t.Run("returns public view with ordered events", func(t *testing.T) {
		shipments := new(MockShipmentRepository)
		services := new(MockServiceRepository)
		svc := newTestService(t)
		s := newStoredShipment(t, svc.ID)

		t0 := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
		shipments.On("FindByTrackingNumber", ctx, s.TrackingNumber).Return(s, nil)
		shipments.On("FindEvents", ctx, s.ID).Return([]shipment.TrackingEvent{
			{ID: uuid.New(), Status: "IN_TRANSIT", Timestamp: t0.Add(2 * time.Hour)},
			{ID: uuid.New(), Status: "PENDING", Timestamp: t0},
		}, nil)
		services.On("FindByID", ctx, svc.ID).Return(svc, nil)

		view, err := NewTrackingService(shipments, services).Track(ctx, "  "+s.TrackingNumber+" ")

		require.NoError(t, err)
		assert.Equal(t, "pending", view.StatusLabel)
		assert.Equal(t, "Accra, GH", view.Destination)
		assert.Equal(t, "Express", view.ServiceName)
		require.Len(t, view.Events, 2)
		assert.Equal(t, "PENDING", view.Events[0].Status)
	})

	t.Run("lower case input is normalised", func(t *testing.T) {
		shipments := new(MockShipmentRepository)
		shipments.On("FindByTrackingNumber", ctx, "PC2610150A1B2C3D").Return(nil, shared.ErrNotFound)

		_, err := NewTrackingService(shipments, new(MockServiceRepository)).Track(ctx, "pc2610150a1b2c3d")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects empty numbers", func(t *testing.T) {
		_, err := NewTrackingService(new(MockShipmentRepository), new(MockServiceRepository)).Track(ctx, "   ")
		assert.Error(t, err)
	})
}
