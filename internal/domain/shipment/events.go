package shipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// AggregateTypeShipment is the aggregate type of shipment events
const AggregateTypeShipment = "Shipment"

// Event type constants double as message topics' event keys
const (
	EventTypeShipmentCreated       = "shipment.created"
	EventTypeShipmentStatusChanged = "shipment.status_changed"
	EventTypeShipmentDeleted       = "shipment.deleted"
)

// ShipmentCreatedEvent is published when a new shipment is created
type ShipmentCreatedEvent struct {
	shared.BaseDomainEvent
	ShipmentID     uuid.UUID `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	ServiceID      uuid.UUID `json:"service_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
}

// NewShipmentCreatedEvent creates a new ShipmentCreatedEvent
func NewShipmentCreatedEvent(s *Shipment) *ShipmentCreatedEvent {
	return &ShipmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentCreated, AggregateTypeShipment, s.ID),
		ShipmentID:      s.ID,
		TrackingNumber:  s.TrackingNumber,
		ServiceID:       s.ServiceID,
		Origin:          s.Sender.CityCountry(),
		Destination:     s.Receiver.CityCountry(),
	}
}

// ShipmentStatusChangedEvent is published when a shipment's status changes
type ShipmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	ShipmentID     uuid.UUID `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	OldStatus      Status    `json:"old_status"`
	NewStatus      Status    `json:"new_status"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	ChangedAt      time.Time `json:"changed_at"`
	ReceiverName   string    `json:"receiver_name"`
	ReceiverEmail  string    `json:"receiver_email"`
}

// NewShipmentStatusChangedEvent creates a new ShipmentStatusChangedEvent
func NewShipmentStatusChangedEvent(s *Shipment, old Status, ev *TrackingEvent) *ShipmentStatusChangedEvent {
	return &ShipmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentStatusChanged, AggregateTypeShipment, s.ID),
		ShipmentID:      s.ID,
		TrackingNumber:  s.TrackingNumber,
		OldStatus:       old,
		NewStatus:       s.Status,
		Description:     ev.Description,
		Location:        ev.Location,
		ChangedAt:       ev.Timestamp,
		ReceiverName:    s.Receiver.Name,
		ReceiverEmail:   s.Receiver.Email,
	}
}

// ShipmentDeletedEvent is published when a shipment is deleted
type ShipmentDeletedEvent struct {
	shared.BaseDomainEvent
	ShipmentID     uuid.UUID `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewShipmentDeletedEvent creates a new ShipmentDeletedEvent
func NewShipmentDeletedEvent(s *Shipment) *ShipmentDeletedEvent {
	return &ShipmentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShipmentDeleted, AggregateTypeShipment, s.ID),
		ShipmentID:      s.ID,
		TrackingNumber:  s.TrackingNumber,
	}
}
