package shipment

import (
	"context"
	"errors"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
)

// TrackingService serves the public tracking page
type TrackingService struct {
	shipments shipment.ShipmentRepository
	services  shipment.ServiceRepository
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(shipments shipment.ShipmentRepository, services shipment.ServiceRepository) *TrackingService {
	return &TrackingService{shipments: shipments, services: services}
}

// Track returns the public view of a shipment, events oldest first
func (s *TrackingService) Track(ctx context.Context, trackingNumber string) (*TrackingView, error) {
	number := shipment.NormalizeTrackingNumber(trackingNumber)
	if number == "" || len(number) > 32 {
		return nil, shared.NewDomainError("INVALID_TRACKING_NUMBER", "Invalid tracking number")
	}
	sh, err := s.shipments.FindByTrackingNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	events, err := s.shipments.FindEvents(ctx, sh.ID)
	if err != nil {
		return nil, err
	}
	shipment.SortEvents(events)

	view := &TrackingView{
		TrackingNumber:    sh.TrackingNumber,
		Status:            string(sh.Status),
		StatusLabel:       sh.Status.Label(),
		Origin:            sh.Sender.CityCountry(),
		Destination:       sh.Receiver.CityCountry(),
		CurrentLocation:   sh.CurrentLocation,
		Pieces:            sh.Pieces,
		Weight:            sh.Weight,
		EstimatedDelivery: sh.EstimatedDelivery,
		ActualDelivery:    sh.ActualDelivery,
		CreatedAt:         sh.CreatedAt,
		Events:            toTrackingEventResponses(events),
	}

	svc, err := s.services.FindByID(ctx, sh.ServiceID)
	switch {
	case err == nil:
		view.ServiceName = svc.Name
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return view, nil
}
