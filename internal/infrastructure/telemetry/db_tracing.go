package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterGormTracing installs the otelgorm plugin on db, without query
// variables, plus a callback that marks failed statements on their span.
func RegisterGormTracing(db *gorm.DB, dbSystem string, logger *zap.Logger) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	cb := db.Callback()
	for _, reg := range []func() error{
		func() error { return cb.Create().After("gorm:create").Register("lumio:span_status_create", markSpan) },
		func() error { return cb.Query().After("gorm:query").Register("lumio:span_status_query", markSpan) },
		func() error { return cb.Update().After("gorm:update").Register("lumio:span_status_update", markSpan) },
		func() error { return cb.Delete().After("gorm:delete").Register("lumio:span_status_delete", markSpan) },
		func() error { return cb.Raw().After("gorm:raw").Register("lumio:span_status_raw", markSpan) },
	} {
		if err := reg(); err != nil {
			return err
		}
	}
	logger.Info("Database tracing enabled", zap.String("db_system", dbSystem))
	return nil
}

func markSpan(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
