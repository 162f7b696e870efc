package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number and touches UpdatedAt
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
	a.Touch()
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return NewBaseAggregateRootWithID(uuid.New())
}

// NewBaseAggregateRootWithID creates a new base aggregate root with a given ID
func NewBaseAggregateRootWithID(id uuid.UUID) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntityWithID(id),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// AgencyScopedRoot extends BaseAggregateRoot with the owning agency.
// Everything below an agency (sub-accounts, invitations, notifications) embeds it.
type AgencyScopedRoot struct {
	BaseAggregateRoot
	AgencyID uuid.UUID
}

// NewAgencyScopedRoot creates a new agency-scoped aggregate root
func NewAgencyScopedRoot(agencyID uuid.UUID) AgencyScopedRoot {
	return AgencyScopedRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		AgencyID:          agencyID,
	}
}

// GetAgencyID returns the owning agency
func (a *AgencyScopedRoot) GetAgencyID() uuid.UUID {
	return a.AgencyID
}
