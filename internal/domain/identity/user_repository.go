package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID, permissions included
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email, permissions included
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByAgency lists the agency's team
	FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*User, error)

	// FindAgencyOwner returns the AGENCY_OWNER of an agency
	FindAgencyOwner(ctx context.Context, agencyID uuid.UUID) (*User, error)
}

// PermissionRepository defines the interface for sub-account permissions
type PermissionRepository interface {
	// Upsert creates or updates the permission for (email, sub-account)
	Upsert(ctx context.Context, permission *Permission) error

	// FindByEmail lists every permission held by an email
	FindByEmail(ctx context.Context, email string) ([]Permission, error)

	// FindByEmailAndSubAccount finds one permission
	FindByEmailAndSubAccount(ctx context.Context, email string, subAccountID uuid.UUID) (*Permission, error)

	// DeleteBySubAccount drops every permission of a sub-account
	DeleteBySubAccount(ctx context.Context, subAccountID uuid.UUID) error
}

// InvitationRepository defines the interface for invitations
type InvitationRepository interface {
	Create(ctx context.Context, invitation *Invitation) error
	Update(ctx context.Context, invitation *Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)

	// FindPendingByEmail finds the pending invitation for an email
	FindPendingByEmail(ctx context.Context, email string) (*Invitation, error)

	// FindByAgency lists an agency's invitations, newest first
	FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*Invitation, error)

	// FindPendingCreatedBefore lists pending invitations created before cutoff
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*Invitation, error)
}
