package shipment

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// TrackingEvent is an append-only history entry of a shipment
type TrackingEvent struct {
	ID          uuid.UUID
	ShipmentID  uuid.UUID
	Status      string
	Description string
	Location    string
	Timestamp   time.Time
	CreatedAt   time.Time
}

// NewTrackingEvent creates a tracking event. A zero timestamp means now.
func NewTrackingEvent(shipmentID uuid.UUID, status, description, location string, at time.Time) (*TrackingEvent, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Tracking event status label cannot be empty")
	}
	if len(status) > 50 {
		return nil, shared.NewDomainError("INVALID_EVENT", "Tracking event status label cannot exceed 50 characters")
	}
	if len(location) > 200 {
		return nil, shared.NewDomainError("INVALID_EVENT", "Tracking event location cannot exceed 200 characters")
	}
	now := time.Now()
	if at.IsZero() {
		at = now
	}
	return &TrackingEvent{
		ID:          uuid.New(),
		ShipmentID:  shipmentID,
		Status:      status,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		Timestamp:   at,
		CreatedAt:   now,
	}, nil
}

// SortEvents orders events by timestamp ascending, keeping insertion order for ties
func SortEvents(events []TrackingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
