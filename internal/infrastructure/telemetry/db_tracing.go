package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include query variables; dev only
	SlowQueryThresh time.Duration
	DBName          string
}

// DBTracingPlugin registers otelgorm plus slow query and error annotation.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBName == "" {
		cfg.DBName = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// Register installs the plugin on db.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.before),
		cb.Create().After("gorm:create").Register("otel_timing:after_create", p.after),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.before),
		cb.Query().After("gorm:query").Register("otel_timing:after_query", p.after),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.before),
		cb.Update().After("gorm:update").Register("otel_timing:after_update", p.after),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", p.after),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.before),
		cb.Row().After("gorm:row").Register("otel_timing:after_row", p.after),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", p.after),
	); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// after annotates the current span with rows affected, errors and slowness
func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
