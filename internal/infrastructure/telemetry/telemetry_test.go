package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestStartServiceSpan(t *testing.T) {
	rec := newRecorder(t)

	run := func() (err error) {
		_, span := StartServiceSpan(context.Background(), "launchpad", "agency")
		defer End(span, &err)
		return errors.New("exchange failed")
	}
	require.Error(t, run())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "launchpad.agency", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestRegisterGormTracing(t *testing.T) {
	rec := newRecorder(t)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, RegisterGormTracing(db, "postgresql", zap.NewNop()))

	mock.ExpectExec(`DELETE FROM "agencies"`).WillReturnError(errors.New("boom"))

	ctx, span := otel.Tracer("test").Start(context.Background(), "parent")
	err = db.WithContext(ctx).Exec(`DELETE FROM "agencies" WHERE id = 1`).Error
	span.End()
	require.Error(t, err)

	var failed bool
	for _, s := range rec.Ended() {
		if s.Status().Code == codes.Error {
			failed = true
		}
	}
	assert.True(t, failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
