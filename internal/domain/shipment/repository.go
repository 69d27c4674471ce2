package shipment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// Listing limits
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxExportRows   = 10000
)

// ListFilter narrows a shipment listing. Non-empty fields are AND-ed.
type ListFilter struct {
	shared.Filter
	Status    Status
	From      *time.Time
	To        *time.Time
	ServiceID *uuid.UUID
}

// Normalize applies paging defaults. Sort keys are whitelisted by the
// repository.
func (f ListFilter) Normalize() ListFilter {
	f.Page = shared.ClampPage(f.Page)
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// CountryCount is the number of shipments bound for one country
type CountryCount struct {
	Country string
	Count   int64
	Active  int64
}

// ShipmentRepository defines the interface for shipment persistence
type ShipmentRepository interface {
	// FindByID finds a shipment with its packages
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// FindByTrackingNumber finds a shipment with its packages
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*Shipment, error)

	// FindEvents returns a shipment's tracking events ordered by timestamp ascending
	FindEvents(ctx context.Context, shipmentID uuid.UUID) ([]TrackingEvent, error)

	// List returns one page of shipments and the total number of matches
	List(ctx context.Context, filter ListFilter) ([]Shipment, int64, error)

	// FindForExport returns up to limit matching shipments ignoring paging
	FindForExport(ctx context.Context, filter ListFilter, limit int) ([]Shipment, error)

	// CountByDestination counts shipments per receiver country
	CountByDestination(ctx context.Context) ([]CountryCount, error)

	// FindLocated returns active shipments with known coordinates
	FindLocated(ctx context.Context, limit int) ([]Shipment, error)

	// Save creates or updates a shipment, replaces its packages and appends
	// pending tracking events in one transaction
	Save(ctx context.Context, shipment *Shipment) error

	// Delete deletes a shipment; events and packages cascade
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteMany deletes the given shipments and returns the number removed
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)

	// ExistsByTrackingNumber checks tracking number uniqueness
	ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error)
}
