package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
)

// ErrMeterNil is returned when an instrument set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// ShipmentMetrics counts shipment lifecycle events. It subscribes to the
// event bus, so counts follow committed changes only.
type ShipmentMetrics struct {
	created       *Counter
	statusChanged *Counter
	deleted       *Counter
}

// NewShipmentMetrics creates the shipment counters on meter
func NewShipmentMetrics(meter metric.Meter) (*ShipmentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	created, err := NewCounter(meter, "parcel_shipment_created_total", "Shipments created", "{shipment}")
	if err != nil {
		return nil, err
	}
	changed, err := NewCounter(meter, "parcel_shipment_status_changed_total", "Shipment status transitions", "{transition}")
	if err != nil {
		return nil, err
	}
	deleted, err := NewCounter(meter, "parcel_shipment_deleted_total", "Shipments deleted", "{shipment}")
	if err != nil {
		return nil, err
	}
	return &ShipmentMetrics{created: created, statusChanged: changed, deleted: deleted}, nil
}

// EventTypes implements shared.EventHandler
func (m *ShipmentMetrics) EventTypes() []string {
	return []string{
		shipment.EventTypeShipmentCreated,
		shipment.EventTypeShipmentStatusChanged,
		shipment.EventTypeShipmentDeleted,
	}
}

// Handle implements shared.EventHandler
func (m *ShipmentMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *shipment.ShipmentCreatedEvent:
		m.created.Inc(ctx, AttrServiceID.String(e.ServiceID.String()))
	case *shipment.ShipmentStatusChangedEvent:
		m.statusChanged.Inc(ctx, AttrShipmentStatus.String(string(e.NewStatus)))
	case *shipment.ShipmentDeletedEvent:
		m.deleted.Inc(ctx)
	}
	return nil
}
