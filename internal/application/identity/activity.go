package identity

import (
	"context"

	"github.com/lumio/backend/internal/application/notification"
	domainnotification "github.com/lumio/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// ActivityLogger records an entry in the agency activity log
type ActivityLogger interface {
	SaveActivityLog(ctx context.Context, in notification.ActivityInput) (*domainnotification.Notification, error)
}

// logActivity writes an activity entry. A failed entry never fails the
// operation that produced it.
func logActivity(ctx context.Context, activity ActivityLogger, logger *zap.Logger, in notification.ActivityInput) {
	if activity == nil {
		return
	}
	if _, err := activity.SaveActivityLog(ctx, in); err != nil {
		logger.Warn("Failed to save activity log",
			zap.String("description", in.Description),
			zap.Error(err))
	}
}
