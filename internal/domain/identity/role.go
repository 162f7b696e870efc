package identity

import (
	"strings"

	"github.com/lumio/backend/internal/domain/shared"
)

// Role is the coarse access level a user holds across the product
type Role string

const (
	RoleAgencyOwner     Role = "AGENCY_OWNER"
	RoleAgencyAdmin     Role = "AGENCY_ADMIN"
	RoleSubAccountUser  Role = "SUBACCOUNT_USER"
	RoleSubAccountGuest Role = "SUBACCOUNT_GUEST"
)

// AllRoles lists every assignable role
func AllRoles() []Role {
	return []Role{RoleAgencyOwner, RoleAgencyAdmin, RoleSubAccountUser, RoleSubAccountGuest}
}

// ParseRole parses a role name, case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewDomainError("INVALID_ROLE", "Role must be one of AGENCY_OWNER, AGENCY_ADMIN, SUBACCOUNT_USER, SUBACCOUNT_GUEST")
	}
	return r, nil
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleAgencyOwner, RoleAgencyAdmin, RoleSubAccountUser, RoleSubAccountGuest:
		return true
	}
	return false
}

// IsAgencyWide reports whether the role sees everything in its agency.
// Owners and admins read all agency notifications; sub-account roles only
// their own sub-account's.
func (r Role) IsAgencyWide() bool {
	return r == RoleAgencyOwner || r == RoleAgencyAdmin
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}
