package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	contactapp "github.com/parcelco/backoffice/internal/application/contact"
	documentapp "github.com/parcelco/backoffice/internal/application/document"
	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/document"
)

type MockShipmentService struct {
	mock.Mock
}

func (m *MockShipmentService) Create(ctx context.Context, req shipmentapp.ShipmentRequest) (*shipmentapp.ShipmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ShipmentResponse), args.Error(1)
}

func (m *MockShipmentService) Get(ctx context.Context, id uuid.UUID) (*shipmentapp.ShipmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ShipmentResponse), args.Error(1)
}

func (m *MockShipmentService) Update(ctx context.Context, id uuid.UUID, req shipmentapp.ShipmentRequest) (*shipmentapp.ShipmentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ShipmentResponse), args.Error(1)
}

func (m *MockShipmentService) UpdateStatus(ctx context.Context, id uuid.UUID, req shipmentapp.UpdateStatusRequest) (*shipmentapp.ShipmentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ShipmentResponse), args.Error(1)
}

func (m *MockShipmentService) AddEvent(ctx context.Context, id uuid.UUID, req shipmentapp.AddEventRequest) (*shipmentapp.TrackingEventResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.TrackingEventResponse), args.Error(1)
}

func (m *MockShipmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockShipmentService) BulkDelete(ctx context.Context, req shipmentapp.BulkDeleteRequest) (*shipmentapp.BulkDeleteResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.BulkDeleteResult), args.Error(1)
}

func (m *MockShipmentService) List(ctx context.Context, q shipmentapp.ListQuery) (*shipmentapp.ListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ListResult), args.Error(1)
}

func (m *MockShipmentService) Export(ctx context.Context, req shipmentapp.ExportRequest) (*shipmentapp.ExportFile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ExportFile), args.Error(1)
}

func (m *MockShipmentService) World(ctx context.Context) (*shipmentapp.WorldResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.WorldResponse), args.Error(1)
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Track(ctx context.Context, tn string) (*shipmentapp.TrackingView, error) {
	args := m.Called(ctx, tn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.TrackingView), args.Error(1)
}

type MockLiveTracker struct {
	mock.Mock
}

func (m *MockLiveTracker) Serve(w http.ResponseWriter, r *http.Request, tn string) error {
	return m.Called(tn).Error(0)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, req contactapp.SubmitRequest) (*contactapp.FormResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contactapp.FormResponse), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, q contactapp.ListQuery) (*contactapp.ListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contactapp.ListResult), args.Error(1)
}

func (m *MockContactService) UpdateStatus(ctx context.Context, id uuid.UUID, req contactapp.UpdateStatusRequest) (*contactapp.FormResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contactapp.FormResponse), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetStats(ctx context.Context, r dashboard.DateRange) (*dashboard.Stats, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Stats), args.Error(1)
}

func (m *MockDashboardService) GetChartData(ctx context.Context, g dashboard.Granularity, now time.Time) ([]dashboard.ChartPoint, error) {
	args := m.Called(ctx, g, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dashboard.ChartPoint), args.Error(1)
}

func (m *MockDashboardService) GetRevenueByService(ctx context.Context, days int) (*dashboard.RevenueBreakdown, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.RevenueBreakdown), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Receipt(ctx context.Context, r *document.Receipt, f documentapp.Format) (*documentapp.Output, error) {
	args := m.Called(ctx, r, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.Output), args.Error(1)
}

func (m *MockDocumentService) Waybill(ctx context.Context, w *document.Waybill, f documentapp.Format) (*documentapp.Output, error) {
	args := m.Called(ctx, w, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.Output), args.Error(1)
}

func (m *MockDocumentService) ForShipment(ctx context.Context, kind document.Kind, id uuid.UUID, f documentapp.Format) (*documentapp.Output, error) {
	args := m.Called(ctx, kind, id, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documentapp.Output), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, activeOnly bool) ([]shipmentapp.ServiceResponse, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipmentapp.ServiceResponse), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, req shipmentapp.ServiceRequest) (*shipmentapp.ServiceResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ServiceResponse), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id uuid.UUID, req shipmentapp.ServiceRequest) (*shipmentapp.ServiceResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipmentapp.ServiceResponse), args.Error(1)
}
