package shipment

import (
	"context"

	"github.com/google/uuid"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/stretchr/testify/mock"
)

// MockShipmentRepository is a mock implementation of ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByTrackingNumber(ctx context.Context, tn string) (*shipment.Shipment, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindEvents(ctx context.Context, id uuid.UUID) ([]shipment.TrackingEvent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]shipment.TrackingEvent), args.Error(1)
}

func (m *MockShipmentRepository) List(ctx context.Context, f shipment.ListFilter) ([]shipment.Shipment, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]shipment.Shipment), args.Get(1).(int64), args.Error(2)
}

func (m *MockShipmentRepository) FindForExport(ctx context.Context, f shipment.ListFilter, limit int) ([]shipment.Shipment, error) {
	args := m.Called(ctx, f, limit)
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) CountByDestination(ctx context.Context) ([]shipment.CountryCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]shipment.CountryCount), args.Error(1)
}

func (m *MockShipmentRepository) FindLocated(ctx context.Context, limit int) ([]shipment.Shipment, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentRepository) ExistsByTrackingNumber(ctx context.Context, tn string) (bool, error) {
	args := m.Called(ctx, tn)
	return args.Bool(0), args.Error(1)
}

// MockServiceRepository is a mock implementation of ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByCode(ctx context.Context, code string) (*shipment.Service, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context, activeOnly bool) ([]shipment.Service, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]shipment.Service), args.Error(1)
}

func (m *MockServiceRepository) Save(ctx context.Context, s *shipment.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
