package identity

import (
	"context"

	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishDomainEvents publishes and clears the aggregate's pending events.
// Publishing failures are logged; the write has already happened.
func publishDomainEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	if publisher == nil || len(events) == 0 {
		agg.ClearDomainEvents()
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("Failed to publish domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err))
	}
	agg.ClearDomainEvents()
}
