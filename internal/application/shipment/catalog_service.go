package shipment

import (
	"context"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shipment"
)

// CatalogService manages the shipping services offered to customers
type CatalogService struct {
	services shipment.ServiceRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(services shipment.ServiceRepository) *CatalogService {
	return &CatalogService{services: services}
}

// List returns services ordered by name
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]ServiceResponse, error) {
	services, err := s.services.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, ToServiceResponse(&services[i]))
	}
	return out, nil
}

// Create adds a service
func (s *CatalogService) Create(ctx context.Context, req ServiceRequest) (*ServiceResponse, error) {
	svc, err := shipment.NewService(req.Code, req.Name, req.Description, req.BasePrice, req.PricePerKg, req.EstimatedDays)
	if err != nil {
		return nil, err
	}
	if req.Active != nil {
		svc.SetActive(*req.Active)
	}
	if err := s.services.Save(ctx, svc); err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	return &resp, nil
}

// Update replaces a service's fields
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req ServiceRequest) (*ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := svc.Update(req.Code, req.Name, req.Description, req.BasePrice, req.PricePerKg, req.EstimatedDays); err != nil {
		return nil, err
	}
	if req.Active != nil {
		svc.SetActive(*req.Active)
	}
	if err := s.services.Save(ctx, svc); err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	return &resp, nil
}
