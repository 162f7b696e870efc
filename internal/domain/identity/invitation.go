package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// InvitationStatus is the lifecycle state of an invitation
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusRevoked  InvitationStatus = "REVOKED"
)

// Invitation asks the owner of Email to join an agency with Role
type Invitation struct {
	shared.AgencyScopedRoot
	Email  string
	Role   Role
	Status InvitationStatus
}

// NewInvitation creates a pending invitation
func NewInvitation(agencyID uuid.UUID, email string, role Role) (*Invitation, error) {
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Agency ID cannot be empty")
	}
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == RoleAgencyOwner {
		return nil, shared.NewDomainError("INVALID_ROLE", "An agency can only have one owner")
	}

	inv := &Invitation{
		AgencyScopedRoot: shared.NewAgencyScopedRoot(agencyID),
		Email:            email,
		Role:             role,
		Status:           InvitationStatusPending,
	}
	inv.AddDomainEvent(NewInvitationCreatedEvent(inv))
	return inv, nil
}

// IsPending reports whether the invitation can still be accepted
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationStatusPending
}

// Accept marks the invitation accepted
func (i *Invitation) Accept() error {
	if !i.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Only pending invitations can be accepted")
	}
	i.Status = InvitationStatusAccepted
	i.IncrementVersion()
	i.AddDomainEvent(NewInvitationAcceptedEvent(i))
	return nil
}

// Revoke marks the invitation revoked
func (i *Invitation) Revoke() error {
	if !i.IsPending() {
		return shared.NewDomainError("INVALID_STATE", "Only pending invitations can be revoked")
	}
	i.Status = InvitationStatusRevoked
	i.IncrementVersion()
	return nil
}

// IsExpired reports whether a pending invitation is older than ttl
func (i *Invitation) IsExpired(ttl time.Duration, now time.Time) bool {
	return i.IsPending() && ttl > 0 && now.Sub(i.CreatedAt) > ttl
}
