package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	contactapp "github.com/parcelco/backoffice/internal/application/contact"
	dashboardapp "github.com/parcelco/backoffice/internal/application/dashboard"
	documentapp "github.com/parcelco/backoffice/internal/application/document"
	shipmentapp "github.com/parcelco/backoffice/internal/application/shipment"
	"github.com/parcelco/backoffice/internal/infrastructure/auth"
	"github.com/parcelco/backoffice/internal/infrastructure/cache"
	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/infrastructure/mail"
	"github.com/parcelco/backoffice/internal/infrastructure/messaging"
	"github.com/parcelco/backoffice/internal/infrastructure/persistence"
	infraprinting "github.com/parcelco/backoffice/internal/infrastructure/printing"
	"github.com/parcelco/backoffice/internal/infrastructure/realtime"
	"github.com/parcelco/backoffice/internal/infrastructure/storage"
	"github.com/parcelco/backoffice/internal/infrastructure/telemetry"
	"github.com/parcelco/backoffice/internal/interfaces/http/handler"
	"github.com/parcelco/backoffice/internal/interfaces/http/router"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

const (
	eventWorkers    = 4
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", Version),
	)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(log, "tracer provider", tp.Shutdown)

	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(log, "logger provider", lp.Shutdown)
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(log, "meter provider", mp.Shutdown)

	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowThreshold))
	if err != nil {
		return err
	}
	defer closeQuietly(log, "database", db.Close)
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Database.SlowThreshold,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		return err
	}

	statsCache, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(log, "cache", statsCache.Close)

	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Event bus: status changes fan out to Kafka, email and live tracking
	bus := messaging.NewEventBus(log)
	trackingHub := realtime.NewTrackingHub(cfg.HTTP.CORSAllowOrigins, log)
	bus.Subscribe(trackingHub)

	if meter := mp.Meter("parcel.shipments"); meter != nil {
		shipmentMetrics, err := telemetry.NewShipmentMetrics(meter)
		if err != nil {
			return err
		}
		bus.Subscribe(shipmentMetrics)
	}

	if cfg.Kafka.Enabled {
		kafka := messaging.NewKafkaPublisher(cfg.Kafka)
		defer closeQuietly(log, "kafka publisher", kafka.Close)
		bus.Subscribe(kafka)
		log.Info("Kafka publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var contactNotifier contactapp.Notifier
	if cfg.SMTP.Enabled {
		sender, err := mail.NewSender(cfg.SMTP)
		if err != nil {
			return err
		}
		bus.Subscribe(mail.NewStatusNotifier(sender, cfg.App.Name, cfg.App.TrackingURL, log))
		contactNotifier = mail.NewContactNotifier(sender, cfg.SMTP.NotifyTo)
		log.Info("Email notifications enabled", zap.String("host", cfg.SMTP.Host))
	}

	bus.Start(eventWorkers)
	defer shutdownWithTimeout(log, "event bus", bus.Stop)

	var archiver *storage.S3Archive
	if cfg.Storage.Enabled {
		archiver, err = storage.NewS3Archive(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return err
		}
		if err := archiver.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket unavailable; documents will not be archived", zap.Error(err))
			archiver = nil
		}
	}

	templates, err := infraprinting.NewTemplateEngine(infraprinting.WithCompany(infraprinting.CompanyInfo{Name: cfg.App.Name}))
	if err != nil {
		return err
	}
	var pdf infraprinting.PDFRenderer
	if cfg.Printing.Enabled {
		chrome := infraprinting.NewChromedpRenderer(&infraprinting.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeRemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		defer closeQuietly(log, "pdf renderer", chrome.Close)
		pdf = chrome
	}

	shipmentService := shipmentapp.NewShipmentService(shipmentRepo, serviceRepo, bus)
	trackingService := shipmentapp.NewTrackingService(shipmentRepo, serviceRepo)
	catalogService := shipmentapp.NewCatalogService(serviceRepo)
	contactService := contactapp.NewContactService(contactRepo, contactNotifier)
	dashboardService := dashboardapp.NewDashboardService(dashboardRepo,
		dashboardapp.WithCache(statsCache, cfg.Dashboard.CacheTTL))

	var docArchiver documentapp.Archiver
	if archiver != nil {
		shipmentService.SetArchiver(archiver)
		docArchiver = archiver
	}
	documentService := documentapp.NewDocumentService(shipmentRepo, serviceRepo, templates, pdf, docArchiver)

	liveListing := realtime.NewLiveListing(shipmentService, cfg.HTTP.CORSAllowOrigins, log)

	handlers := router.Handlers{
		System: handler.NewSystemHandler(cfg.App.Name, Version, cfg.Maps.APIKey, cfg.App.BaseURL,
			map[string]handler.Pinger{
				"database": db,
				"cache":    statsCache,
			}),
		Shipments: handler.NewShipmentHandler(shipmentService),
		Tracking:  handler.NewTrackingHandler(trackingService, trackingHub),
		Services:  handler.NewServiceHandler(catalogService),
		Contact:   handler.NewContactHandler(contactService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Documents: handler.NewDocumentHandler(documentService),
		Live:      handler.NewLiveHandler(ctx, liveListing),
	}

	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tp.IsEnabled(),
		Meter:          mp.Meter("http.server"),
		HSTSEnabled:    cfg.App.IsProduction(),
		Logger:         log,
		Verifier:       auth.NewVerifier(cfg.Auth),
	}, handlers)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	log.Info("Server exited")
	return nil
}

func shutdownWithTimeout(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}

func closeQuietly(log *zap.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn("Close failed", zap.String("component", name), zap.Error(err))
	}
}

