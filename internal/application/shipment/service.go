package shipment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	// maxTrackingAttempts bounds tracking number regeneration on collision
	maxTrackingAttempts = 5
	// worldLocatedLimit caps the markers returned for the world map
	worldLocatedLimit = 500
)

// ShipmentService handles shipment use cases
type ShipmentService struct {
	shipments shipment.ShipmentRepository
	services  shipment.ServiceRepository
	publisher shared.EventPublisher
	archiver  Archiver
}

// NewShipmentService creates a new ShipmentService. A nil publisher drops events.
func NewShipmentService(
	shipments shipment.ShipmentRepository,
	services shipment.ServiceRepository,
	publisher shared.EventPublisher,
) *ShipmentService {
	if publisher == nil {
		publisher = shared.EventPublisherFunc(func(context.Context, ...shared.DomainEvent) error { return nil })
	}
	return &ShipmentService{
		shipments: shipments,
		services:  services,
		publisher: publisher,
	}
}

// SetArchiver enables archiving of generated exports
func (s *ShipmentService) SetArchiver(a Archiver) {
	s.archiver = a
}

func (s *ShipmentService) resolveService(ctx context.Context, id uuid.UUID) (*shipment.Service, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_SERVICE", "Service not found")
		}
		return nil, err
	}
	return svc, nil
}

// publish hands the aggregate's domain events to the publisher. Delivery
// failures are logged; the write has already been committed.
func (s *ShipmentService) publish(ctx context.Context, sh *shipment.Shipment) {
	events := sh.PullDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish shipment events",
			zap.String("tracking_number", sh.TrackingNumber),
			zap.Error(err),
		)
	}
}

// Create creates a PENDING shipment with a unique tracking number
func (s *ShipmentService) Create(ctx context.Context, req ShipmentRequest) (*ShipmentResponse, error) {
	svc, err := s.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, shared.NewDomainError("SERVICE_INACTIVE", "Service is not available")
	}

	var sh *shipment.Shipment
	for attempt := 0; attempt < maxTrackingAttempts; attempt++ {
		candidate, err := shipment.NewShipment(req.toDetails(svc))
		if err != nil {
			return nil, err
		}
		exists, err := s.shipments.ExistsByTrackingNumber(ctx, candidate.TrackingNumber)
		if err != nil {
			return nil, err
		}
		if !exists {
			sh = candidate
			break
		}
	}
	if sh == nil {
		return nil, shared.NewDomainError("TRACKING_NUMBER_EXHAUSTED", "Could not allocate a tracking number, retry")
	}

	if err := s.shipments.Save(ctx, sh); err != nil {
		return nil, err
	}
	s.publish(ctx, sh)

	logger.L(ctx).Info("Shipment created",
		zap.String("shipment_id", sh.ID.String()),
		zap.String("tracking_number", sh.TrackingNumber),
	)

	resp := ToShipmentResponse(sh)
	return &resp, nil
}

func (s *ShipmentService) withEvents(ctx context.Context, sh *shipment.Shipment) (*ShipmentResponse, error) {
	events, err := s.shipments.FindEvents(ctx, sh.ID)
	if err != nil {
		return nil, err
	}
	resp := ToShipmentResponse(sh)
	resp.Events = toTrackingEventResponses(events)
	return &resp, nil
}

// Get returns a shipment with its tracking history
func (s *ShipmentService) Get(ctx context.Context, id uuid.UUID) (*ShipmentResponse, error) {
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withEvents(ctx, sh)
}

// GetByTrackingNumber returns a shipment with its tracking history
func (s *ShipmentService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*ShipmentResponse, error) {
	sh, err := s.shipments.FindByTrackingNumber(ctx, shipment.NormalizeTrackingNumber(trackingNumber))
	if err != nil {
		return nil, err
	}
	return s.withEvents(ctx, sh)
}

// Update replaces the editable fields of a shipment
func (s *ShipmentService) Update(ctx context.Context, id uuid.UUID, req ShipmentRequest) (*ShipmentResponse, error) {
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var svc *shipment.Service
	if req.ServiceID != sh.ServiceID {
		if svc, err = s.resolveService(ctx, req.ServiceID); err != nil {
			return nil, err
		}
		if !svc.Active {
			return nil, shared.NewDomainError("SERVICE_INACTIVE", "Service is not available")
		}
	}

	details := req.toDetails(svc)
	if req.EstimatedCost == nil && svc == nil {
		details.EstimatedCost = sh.EstimatedCost
	}
	if req.EstimatedDelivery == nil && svc == nil {
		details.EstimatedDelivery = sh.EstimatedDelivery
	}
	if err := sh.UpdateDetails(details); err != nil {
		return nil, err
	}
	if err := s.shipments.Save(ctx, sh); err != nil {
		return nil, err
	}
	resp := ToShipmentResponse(sh)
	return &resp, nil
}

// UpdateStatus moves a shipment to a new status and records the event
func (s *ShipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*ShipmentResponse, error) {
	status, err := shipment.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	old := sh.Status
	if _, err := sh.ChangeStatus(status, req.Description, req.Location, timeOrZero(req.Timestamp)); err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := sh.SetPosition(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if err := s.shipments.Save(ctx, sh); err != nil {
		return nil, err
	}
	s.publish(ctx, sh)

	logger.L(ctx).Info("Shipment status changed",
		zap.String("tracking_number", sh.TrackingNumber),
		zap.String("from", string(old)),
		zap.String("to", string(status)),
	)
	return s.withEvents(ctx, sh)
}

// AddEvent appends a tracking event without changing the status
func (s *ShipmentService) AddEvent(ctx context.Context, id uuid.UUID, req AddEventRequest) (*TrackingEventResponse, error) {
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Shipment is already "+sh.Status.Label())
	}
	ev, err := sh.AddEvent(req.Status, req.Description, req.Location, timeOrZero(req.Timestamp))
	if err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := sh.SetPosition(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if err := s.shipments.Save(ctx, sh); err != nil {
		return nil, err
	}
	resp := ToTrackingEventResponse(*ev)
	return &resp, nil
}

// Delete deletes a shipment; its packages and history go with it
func (s *ShipmentService) Delete(ctx context.Context, id uuid.UUID) error {
	sh, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.shipments.Delete(ctx, id); err != nil {
		return err
	}
	sh.MarkDeleted()
	s.publish(ctx, sh)
	return nil
}

// BulkDelete deletes the given shipments. Unknown ids are ignored and
// reflected in the deleted count.
func (s *ShipmentService) BulkDelete(ctx context.Context, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	seen := make(map[uuid.UUID]struct{}, len(req.IDs))
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No shipment ids given")
	}

	deleted, err := s.shipments.DeleteMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Shipments bulk deleted",
		zap.Int("requested", len(ids)),
		zap.Int64("deleted", deleted),
	)
	return &BulkDeleteResult{Requested: len(ids), Deleted: deleted}, nil
}

// List returns one page of shipments. A page past the end is empty, not an error.
func (s *ShipmentService) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	filter, err := query.ToFilter()
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *ShipmentService) list(ctx context.Context, filter shipment.ListFilter) (*ListResult, error) {
	rows, total, err := s.shipments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ShipmentListItem, 0, len(rows))
	for i := range rows {
		items = append(items, ToShipmentListItem(&rows[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// World returns per-country counts and the located active shipments
func (s *ShipmentService) World(ctx context.Context) (*WorldResponse, error) {
	counts, err := s.shipments.CountByDestination(ctx)
	if err != nil {
		return nil, err
	}
	located, err := s.shipments.FindLocated(ctx, worldLocatedLimit)
	if err != nil {
		return nil, err
	}

	resp := &WorldResponse{
		Countries: make([]CountryStat, 0, len(counts)),
		Shipments: make([]LocatedShipment, 0, len(located)),
	}
	for _, c := range counts {
		resp.Countries = append(resp.Countries, CountryStat(c))
	}
	for i := range located {
		sh := &located[i]
		if !sh.HasPosition() {
			continue
		}
		resp.Shipments = append(resp.Shipments, LocatedShipment{
			ID:              sh.ID,
			TrackingNumber:  sh.TrackingNumber,
			Status:          string(sh.Status),
			Latitude:        *sh.CurrentLat,
			Longitude:       *sh.CurrentLng,
			CurrentLocation: sh.CurrentLocation,
			Destination:     sh.Receiver.CityCountry(),
			UpdatedAt:       sh.UpdatedAt,
		})
	}
	return resp, nil
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
