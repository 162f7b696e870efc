package agency

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// DefaultGoal is the sub-account goal a new agency starts with
const DefaultGoal = 5

// Agency is the top-level tenant. It owns sub-accounts, a billing customer,
// and optionally a connected payment account for receiving payments.
type Agency struct {
	shared.BaseAggregateRoot
	Profile
	ConnectAccountID string
	CustomerID       string
	WhiteLabel       bool
	Goal             int
}

// NewAgency creates an agency from a validated profile. id is the identifier
// the client generated for the form; uuid.Nil picks a fresh one.
func NewAgency(id uuid.UUID, customerID string, profile Profile, whiteLabel bool) (*Agency, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "A billing customer is required to create an agency")
	}
	a := &Agency{
		BaseAggregateRoot: shared.NewBaseAggregateRootWithID(id),
		Profile:           profile,
		CustomerID:        customerID,
		WhiteLabel:        whiteLabel,
		Goal:              DefaultGoal,
	}
	a.AddDomainEvent(NewAgencyCreatedEvent(a))
	return a, nil
}

// UpdateProfile replaces the business details
func (a *Agency) UpdateProfile(profile Profile, whiteLabel bool) {
	a.Profile = profile
	a.WhiteLabel = whiteLabel
	a.IncrementVersion()
}

// SetGoal sets the sub-account goal
func (a *Agency) SetGoal(goal int) error {
	if goal < 1 {
		return shared.NewDomainError("INVALID_GOAL", "Goal must be at least 1")
	}
	a.Goal = goal
	a.IncrementVersion()
	return nil
}

// IsConnected reports whether a payment account is connected
func (a *Agency) IsConnected() bool {
	return a.ConnectAccountID != ""
}

// ConnectAccount records the connected payment account id
func (a *Agency) ConnectAccount(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Connected account ID cannot be empty")
	}
	if a.IsConnected() {
		return shared.NewDomainError("ALREADY_CONNECTED", "A payment account is already connected")
	}
	a.ConnectAccountID = accountID
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountConnectedEvent(AggregateTypeAgency, a.ID, a.ID, accountID))
	return nil
}

// DetailsComplete reports whether the launchpad "business details" step is done
func (a *Agency) DetailsComplete() bool {
	return a.Profile.Complete()
}
