package identity

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// Permission grants the user with Email access to one sub-account.
// A record with Access=false is kept so the team page can show the toggle.
type Permission struct {
	shared.BaseEntity
	Email        string
	SubAccountID uuid.UUID
	Access       bool
}

// NewPermission creates a permission record
func NewPermission(email string, subAccountID uuid.UUID, access bool) (*Permission, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if subAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBACCOUNT", "Sub-account ID cannot be empty")
	}
	return &Permission{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		SubAccountID: subAccountID,
		Access:       access,
	}, nil
}

// SetAccess flips the access flag
func (p *Permission) SetAccess(access bool) {
	p.Access = access
	p.Touch()
}
