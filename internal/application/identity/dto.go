package identity

import (
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/auth"
)

// RegisterInput contains the input for sign-up
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	Tokens *auth.TokenPair
	User   *identity.User
}

// InitUserInput upserts the signed-in user. Role defaults to SUBACCOUNT_USER.
type InitUserInput struct {
	Role     identity.Role
	AgencyID *uuid.UUID
}

// AuthUserDetails is everything the dashboard shell needs about the
// signed-in user
type AuthUserDetails struct {
	User        *identity.User
	Agency      *agency.Agency
	SubAccounts []*agency.SubAccount
	Permissions []identity.Permission
}

// ChangePermissionInput grants or removes a team member's access to a
// sub-account
type ChangePermissionInput struct {
	Email        string
	SubAccountID uuid.UUID
	Access       bool
}

// SendInvitationInput invites an email address to an agency
type SendInvitationInput struct {
	AgencyID uuid.UUID
	Email    string
	Role     identity.Role
}
