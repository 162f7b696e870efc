package agency

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// SubAccount is a scoped workspace under an agency with its own
// permissions and funnels
type SubAccount struct {
	shared.AgencyScopedRoot
	Profile
	ConnectAccountID string
	Goal             int
}

// NewSubAccount creates a sub-account under agencyID
func NewSubAccount(agencyID uuid.UUID, profile Profile) (*SubAccount, error) {
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Sub account must belong to an agency")
	}
	s := &SubAccount{
		AgencyScopedRoot: shared.NewAgencyScopedRoot(agencyID),
		Profile:          profile,
		Goal:             DefaultGoal,
	}
	s.AddDomainEvent(NewSubAccountCreatedEvent(s))
	return s, nil
}

// UpdateProfile replaces the business details
func (s *SubAccount) UpdateProfile(profile Profile) {
	s.Profile = profile
	s.IncrementVersion()
}

// IsConnected reports whether a payment account is connected
func (s *SubAccount) IsConnected() bool {
	return s.ConnectAccountID != ""
}

// ConnectAccount records the connected payment account id
func (s *SubAccount) ConnectAccount(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Connected account ID cannot be empty")
	}
	if s.IsConnected() {
		return shared.NewDomainError("ALREADY_CONNECTED", "A payment account is already connected")
	}
	s.ConnectAccountID = accountID
	s.IncrementVersion()
	s.AddDomainEvent(NewAccountConnectedEvent(AggregateTypeSubAccount, s.ID, s.AgencyID, accountID))
	return nil
}

// DetailsComplete reports whether every business detail is present
func (s *SubAccount) DetailsComplete() bool {
	return s.Profile.Complete()
}
