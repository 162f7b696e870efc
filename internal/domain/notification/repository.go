package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	Create(ctx context.Context, n *Notification) error

	// FindByAgencyWithAuthor lists an agency's notifications newest first,
	// authors included
	FindByAgencyWithAuthor(ctx context.Context, agencyID uuid.UUID) ([]*Notification, error)
}
