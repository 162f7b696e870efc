package models

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/notification"
)

// NotificationModel maps the notifications table
type NotificationModel struct {
	AgencyScopedModel
	Message      string     `gorm:"type:text;not null"`
	SubAccountID *uuid.UUID `gorm:"type:uuid;index"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	User         *UserModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a Notification; the author is set when
// the user relation was preloaded
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		AgencyScopedRoot: m.AgencyScopedModel.ToAgencyScopedRoot(),
		Message:          m.Message,
		SubAccountID:     m.SubAccountID,
		UserID:           m.UserID,
	}
	if m.User != nil {
		n.Author = &notification.Author{
			ID:        m.User.ID,
			Name:      m.User.Name,
			Email:     m.User.Email,
			AvatarURL: m.User.AvatarURL,
		}
	}
	return n
}

// NotificationModelFromDomain converts a Notification to its model
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{Message: n.Message, SubAccountID: n.SubAccountID, UserID: n.UserID}
	m.FromDomainAgencyScopedRoot(n.AgencyScopedRoot)
	return m
}
