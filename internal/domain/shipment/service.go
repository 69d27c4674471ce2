package shipment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service is a named shipping product such as "Express Delivery"
type Service struct {
	shared.BaseEntity
	Code          string
	Name          string
	Description   string
	BasePrice     decimal.Decimal
	PricePerKg    decimal.Decimal
	EstimatedDays int
	Active        bool
}

// NewService creates an active service
func NewService(code, name, description string, basePrice, pricePerKg decimal.Decimal, estimatedDays int) (*Service, error) {
	s := &Service{
		BaseEntity: shared.NewBaseEntity(),
		Active:     true,
	}
	if err := s.Update(code, name, description, basePrice, pricePerKg, estimatedDays); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the service's descriptive and pricing fields
func (s *Service) Update(code, name, description string, basePrice, pricePerKg decimal.Decimal, estimatedDays int) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Service code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Service code cannot exceed 50 characters")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if basePrice.IsNegative() || pricePerKg.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Service prices cannot be negative")
	}
	if estimatedDays < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Estimated days cannot be negative")
	}

	s.Code = code
	s.Name = name
	s.Description = description
	s.BasePrice = basePrice
	s.PricePerKg = pricePerKg
	s.EstimatedDays = estimatedDays
	s.Touch()
	return nil
}

// SetActive toggles whether the service is offered publicly
func (s *Service) SetActive(active bool) {
	s.Active = active
	s.Touch()
}

// Quote returns BasePrice + PricePerKg * weight, rounded to cents
func (s *Service) Quote(weight decimal.Decimal) decimal.Decimal {
	if weight.IsNegative() {
		weight = decimal.Zero
	}
	return s.BasePrice.Add(s.PricePerKg.Mul(weight)).Round(2)
}

// ServiceRepository defines persistence for services
type ServiceRepository interface {
	// FindByID finds a service by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// FindByCode finds a service by code
	FindByCode(ctx context.Context, code string) (*Service, error)

	// FindAll returns services ordered by name; activeOnly hides inactive ones
	FindAll(ctx context.Context, activeOnly bool) ([]Service, error)

	// Save creates or updates a service
	Save(ctx context.Context, service *Service) error
}
