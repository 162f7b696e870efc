package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/notification"
	"github.com/lumio/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Omit("User").Create(models.NotificationModelFromDomain(n)).Error
}

// FindByAgencyWithAuthor lists the agency's notifications newest first with
// the author preloaded
func (r *GormNotificationRepository) FindByAgencyWithAuthor(ctx context.Context, agencyID uuid.UUID) ([]*notification.Notification, error) {
	var rows []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("agency_id = ?", agencyID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
