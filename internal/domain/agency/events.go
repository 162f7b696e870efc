package agency

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeAgency     = "Agency"
	AggregateTypeSubAccount = "SubAccount"
)

// Agency domain event types
const (
	EventTypeAgencyCreated     = "AgencyCreated"
	EventTypeSubAccountCreated = "SubAccountCreated"
	EventTypeAccountConnected  = "PaymentAccountConnected"
)

// AgencyCreatedEvent is published when an agency is created
type AgencyCreatedEvent struct {
	shared.BaseDomainEvent
	Name       string `json:"name"`
	CustomerID string `json:"customer_id"`
}

// NewAgencyCreatedEvent creates a new AgencyCreatedEvent
func NewAgencyCreatedEvent(a *Agency) *AgencyCreatedEvent {
	return &AgencyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgencyCreated, AggregateTypeAgency, a.ID, a.ID),
		Name:            a.Name,
		CustomerID:      a.CustomerID,
	}
}

// SubAccountCreatedEvent is published when a sub-account is created
type SubAccountCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewSubAccountCreatedEvent creates a new SubAccountCreatedEvent
func NewSubAccountCreatedEvent(s *SubAccount) *SubAccountCreatedEvent {
	return &SubAccountCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubAccountCreated, AggregateTypeSubAccount, s.ID, s.AgencyID),
		Name:            s.Name,
	}
}

// AccountConnectedEvent is published when a payment account is connected to
// an agency or sub-account
type AccountConnectedEvent struct {
	shared.BaseDomainEvent
	ConnectAccountID string `json:"connect_account_id"`
}

// NewAccountConnectedEvent creates a new AccountConnectedEvent
func NewAccountConnectedEvent(aggType string, aggID, agencyID uuid.UUID, accountID string) *AccountConnectedEvent {
	return &AccountConnectedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAccountConnected, aggType, aggID, agencyID),
		ConnectAccountID: accountID,
	}
}
