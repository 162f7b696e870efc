package agency

import (
	"context"

	"github.com/google/uuid"
)

// AgencyRepository defines the interface for agency persistence
type AgencyRepository interface {
	// Save creates the agency or updates it when the ID exists
	Save(ctx context.Context, agency *Agency) error

	// FindByID finds an agency by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Agency, error)

	// Delete removes an agency together with its sub-accounts
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubAccountRepository defines the interface for sub-account persistence
type SubAccountRepository interface {
	// Save creates the sub-account or updates it when the ID exists
	Save(ctx context.Context, subAccount *SubAccount) error

	// FindByID finds a sub-account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SubAccount, error)

	// FindByAgency lists an agency's sub-accounts by name
	FindByAgency(ctx context.Context, agencyID uuid.UUID) ([]*SubAccount, error)

	// Delete removes a sub-account
	Delete(ctx context.Context, id uuid.UUID) error
}
