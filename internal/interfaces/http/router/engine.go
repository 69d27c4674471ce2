package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/interfaces/http/handler"
	"github.com/parcelco/backoffice/internal/interfaces/http/middleware"
)

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	System    *handler.SystemHandler
	Shipments *handler.ShipmentHandler
	Tracking  *handler.TrackingHandler
	Services  *handler.ServiceHandler
	Contact   *handler.ContactHandler
	Dashboard *handler.DashboardHandler
	Documents *handler.DocumentHandler
	Live      *handler.LiveHandler
}

// EngineConfig carries what the middleware chain needs
type EngineConfig struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	Meter          metric.Meter // nil disables HTTP metrics
	HSTSEnabled    bool
	Logger         *zap.Logger
	Verifier       middleware.TokenVerifier
}

// NewEngine builds the gin engine with the full middleware chain and routes
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	middleware.SetupValidator()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.HSTSEnabled

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.ServiceName, cfg.TracingEnabled)...)
	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}
	engine.Use(
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.SecureWithConfig(security),
		middleware.CORSWithConfig(cors),
		middleware.RequestSeq(),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	engine.GET("/health", h.System.Health)

	admin := middleware.AdminAuth(cfg.Verifier)
	r := NewRouter(engine)
	r.Register(publicRoutes(h, admin)).
		Register(shipmentRoutes(h, admin)).
		Register(NewDomainGroup("documents", "/documents").
			Use(admin).
			POST("/receipt", h.Documents.Receipt).
			POST("/waybill", h.Documents.Waybill)).
		Register(NewDomainGroup("dashboard", "/dashboard").
			Use(admin).
			GET("/stats", h.Dashboard.Stats).
			GET("/chart", h.Dashboard.Chart).
			GET("/revenue", h.Dashboard.Revenue)).
		Register(NewDomainGroup("admin", "/admin").
			Use(admin).
			GET("/live", h.Live.Serve).
			GET("/services", h.Services.ListAll))
	r.Setup()

	return engine, nil
}

// publicRoutes mixes public endpoints with admin ones sharing a prefix;
// the admin ones carry their own auth handler
func publicRoutes(h Handlers, admin gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("public", "").
		GET("/public-config", h.System.GetPublicConfig).
		GET("/services", h.Services.ListActive).
		POST("/services", admin, h.Services.Create).
		PUT("/services/:id", admin, h.Services.Update).
		POST("/contact", h.Contact.Submit).
		GET("/contact", admin, h.Contact.List).
		PATCH("/contact/:id/status", admin, h.Contact.UpdateStatus).
		GET("/tracking/:number", h.Tracking.Track).
		GET("/tracking/:number/live", h.Tracking.Live)
}

func shipmentRoutes(h Handlers, admin gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("shipments", "/shipments").
		Use(admin).
		GET("", h.Shipments.List).
		POST("", h.Shipments.Create).
		GET("/world", h.Shipments.World).
		POST("/export", h.Shipments.Export).
		POST("/bulk-delete", h.Shipments.BulkDelete).
		GET("/:id", h.Shipments.Get).
		PUT("/:id", h.Shipments.Update).
		DELETE("/:id", h.Shipments.Delete).
		PATCH("/:id/status", h.Shipments.UpdateStatus).
		POST("/:id/events", h.Shipments.AddEvent).
		GET("/:id/receipt", h.Documents.ShipmentReceipt).
		GET("/:id/waybill", h.Documents.ShipmentWaybill)
}
