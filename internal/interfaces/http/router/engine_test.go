package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"

	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
	"github.com/parcelco/backoffice/internal/domain/dashboard"
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/infrastructure/auth"
	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/parcelco/backoffice/internal/interfaces/http/handler"
)

// Embedded nil interfaces panic if an unexpected method is reached.

type stubShipments struct{ handler.ShipmentService }

func (stubShipments) List(context.Context, shipmentapp.ListQuery) (*shipmentapp.ListResult, error) {
	page := shared.NewPaginated[shipmentapp.ShipmentListItem](nil, 0, 1, 10)
	return &page, nil
}

func (stubShipments) World(context.Context) (*shipmentapp.WorldResponse, error) {
	return &shipmentapp.WorldResponse{}, nil
}

type stubCatalog struct{ handler.CatalogService }

func (stubCatalog) List(context.Context, bool) ([]shipmentapp.ServiceResponse, error) {
	return []shipmentapp.ServiceResponse{{Code: "STD"}}, nil
}

type stubTracker struct{}

func (stubTracker) Track(_ context.Context, tn string) (*shipmentapp.TrackingView, error) {
	return &shipmentapp.TrackingView{TrackingNumber: tn}, nil
}

type stubDashboard struct{ handler.DashboardService }

func (stubDashboard) GetStats(context.Context, dashboard.DateRange) (*dashboard.Stats, error) {
	return &dashboard.Stats{}, nil
}

type stubVerifier struct{}

func (stubVerifier) VerifyAdmin(token string) (*auth.Claims, error) {
	switch token {
	case "admin":
		return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ops"}}, nil
	case "viewer":
		return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "viewer"}}, auth.ErrForbidden
	}
	return nil, auth.ErrInvalidToken
}

func newTestEngine(t *testing.T) http.Handler {
	t.Helper()
	engine, err := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"https://admin.parcel.example"},
		},
		ServiceName: "parcel-test",
		Logger:      zap.NewNop(),
		Verifier:    stubVerifier{},
	}, Handlers{
		System:    handler.NewSystemHandler("parcel", "test", "key", "https://parcel.example", nil),
		Shipments: handler.NewShipmentHandler(stubShipments{}),
		Tracking:  handler.NewTrackingHandler(stubTracker{}, nil),
		Services:  handler.NewServiceHandler(stubCatalog{}),
		Contact:   handler.NewContactHandler(nil),
		Dashboard: handler.NewDashboardHandler(stubDashboard{}),
		Documents: handler.NewDocumentHandler(nil),
		Live:      handler.NewLiveHandler(context.Background(), nil),
	})
	require.NoError(t, err)
	return engine
}

func request(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewEngine_PublicRoutes(t *testing.T) {
	engine := newTestEngine(t)

	for _, path := range []string{"/health", "/api/services", "/api/public-config", "/api/tracking/PCL1"} {
		w := request(engine, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestNewEngine_AdminRoutesRequireToken(t *testing.T) {
	engine := newTestEngine(t)

	admin := []struct{ method, path string }{
		{http.MethodGet, "/api/shipments"},
		{http.MethodGet, "/api/shipments/world"},
		{http.MethodPost, "/api/services"},
		{http.MethodGet, "/api/contact"},
		{http.MethodGet, "/api/dashboard/stats"},
		{http.MethodPost, "/api/documents/receipt"},
		{http.MethodGet, "/api/admin/live"},
	}
	for _, r := range admin {
		assert.Equal(t, http.StatusUnauthorized, request(engine, r.method, r.path, "").Code, r.path)
		assert.Equal(t, http.StatusUnauthorized, request(engine, r.method, r.path, "garbage").Code, r.path)
		assert.Equal(t, http.StatusForbidden, request(engine, r.method, r.path, "viewer").Code, r.path)
	}

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/shipments", "admin").Code)
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/shipments/world", "admin").Code)
	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/dashboard/stats", "admin").Code)
}

func TestNewEngine_CORSPreflight(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/shipments", nil)
	req.Header.Set("Origin", "https://admin.parcel.example")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.parcel.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewEngine_RateLimit(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{
			RateLimitEnabled:  true,
			RateLimitRequests: 1,
			RateLimitWindow:   time.Minute,
		},
		Logger:   zap.NewNop(),
		Verifier: stubVerifier{},
	}, Handlers{
		System:    handler.NewSystemHandler("parcel", "test", "", "", nil),
		Shipments: handler.NewShipmentHandler(stubShipments{}),
		Tracking:  handler.NewTrackingHandler(stubTracker{}, nil),
		Services:  handler.NewServiceHandler(stubCatalog{}),
		Contact:   handler.NewContactHandler(nil),
		Dashboard: handler.NewDashboardHandler(stubDashboard{}),
		Documents: handler.NewDocumentHandler(nil),
		Live:      handler.NewLiveHandler(context.Background(), nil),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/api/services", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, request(engine, http.MethodGet, "/api/services", "").Code)
}

func TestNewEngine_HTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	engine, err := NewEngine(EngineConfig{
		Meter:    provider.Meter("http.server"),
		Logger:   zap.NewNop(),
		Verifier: stubVerifier{},
	}, Handlers{
		System:    handler.NewSystemHandler("parcel", "test", "", "", nil),
		Shipments: handler.NewShipmentHandler(stubShipments{}),
		Tracking:  handler.NewTrackingHandler(stubTracker{}, nil),
		Services:  handler.NewServiceHandler(stubCatalog{}),
		Contact:   handler.NewContactHandler(nil),
		Dashboard: handler.NewDashboardHandler(stubDashboard{}),
		Documents: handler.NewDocumentHandler(nil),
		Live:      handler.NewLiveHandler(context.Background(), nil),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(engine, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(engine, http.MethodGet, "/api/shipments", "").Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total, "rejected requests are counted too")
}
