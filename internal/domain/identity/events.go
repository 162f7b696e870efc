package identity

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser       = "User"
	AggregateTypeInvitation = "Invitation"
)

// Identity domain event types
const (
	EventTypeUserCreated        = "UserCreated"
	EventTypeUserRoleChanged    = "UserRoleChanged"
	EventTypeInvitationCreated  = "InvitationCreated"
	EventTypeInvitationAccepted = "InvitationAccepted"
)

func agencyOf(u *User) uuid.UUID {
	if u.AgencyID == nil {
		return uuid.Nil
	}
	return *u.AgencyID
}

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, agencyOf(u)),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Email   string `json:"email"`
	OldRole Role   `json:"old_role"`
	NewRole Role   `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(u *User, old Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, u.ID, agencyOf(u)),
		Email:           u.Email,
		OldRole:         old,
		NewRole:         u.Role,
	}
}

// InvitationCreatedEvent is published when an invitation is sent.
// The mailer subscribes to it.
type InvitationCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewInvitationCreatedEvent creates a new InvitationCreatedEvent
func NewInvitationCreatedEvent(i *Invitation) *InvitationCreatedEvent {
	return &InvitationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationCreated, AggregateTypeInvitation, i.ID, i.AgencyID),
		Email:           i.Email,
		Role:            i.Role,
	}
}

// InvitationAcceptedEvent is published when an invitation is accepted
type InvitationAcceptedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewInvitationAcceptedEvent creates a new InvitationAcceptedEvent
func NewInvitationAcceptedEvent(i *Invitation) *InvitationAcceptedEvent {
	return &InvitationAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvitationAccepted, AggregateTypeInvitation, i.ID, i.AgencyID),
		Email:           i.Email,
	}
}
