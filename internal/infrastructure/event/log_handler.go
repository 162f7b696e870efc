package event

import (
	"context"

	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogHandler writes every domain event to the structured log
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger.Named("events")}
}

func (h *LogHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.String("agency_id", ev.AgencyID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	)
	return nil
}

func (h *LogHandler) EventTypes() []string { return nil }
