// Package access decides who may act on agencies and sub-accounts.
package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
)

// ErrNotMember is returned when the user does not belong to the agency
var ErrNotMember = shared.NewDomainError("FORBIDDEN", "You are not a member of this agency")

// ErrNotAgencyAdmin is returned when an agency-wide role is required
var ErrNotAgencyAdmin = shared.NewDomainError("FORBIDDEN", "Only agency owners and admins can do this")

// Guard checks agency membership against the stored user, never the token,
// so role changes take effect immediately
type Guard struct {
	users identity.UserRepository
}

// NewGuard creates a Guard
func NewGuard(users identity.UserRepository) *Guard {
	return &Guard{users: users}
}

// CurrentUser loads the signed-in user. A missing user is ErrUnauthorized.
func (g *Guard) CurrentUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	u, err := g.users.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUnauthorized
	}
	return u, err
}

// RequireAgencyMember returns the user when they belong to agencyID
func (g *Guard) RequireAgencyMember(ctx context.Context, userID, agencyID uuid.UUID) (*identity.User, error) {
	u, err := g.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.BelongsTo(agencyID) {
		return nil, ErrNotMember
	}
	return u, nil
}

// RequireAgencyAdmin returns the user when they are an owner or admin of
// agencyID
func (g *Guard) RequireAgencyAdmin(ctx context.Context, userID, agencyID uuid.UUID) (*identity.User, error) {
	u, err := g.RequireAgencyMember(ctx, userID, agencyID)
	if err != nil {
		return nil, err
	}
	if !u.Role.IsAgencyWide() {
		return nil, ErrNotAgencyAdmin
	}
	return u, nil
}
