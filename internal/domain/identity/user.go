package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a var so tests can lower it
var bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a person who signs in to Lumio. A user belongs to at most one
// agency and reaches sub-accounts through Permission records keyed by email.
type User struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	AvatarURL    string
	Role         Role
	AgencyID     *uuid.UUID
	PasswordHash string
	Permissions  []Permission // loaded by repository
}

// NewUser creates a user. role may be empty for a user that signed up but
// has not been attached to an agency yet.
func NewUser(name, email string, role Role) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if role != "" && !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             email,
		Role:              role,
		Permissions:       make([]Permission, 0),
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))
	return user, nil
}

// UpdateProfile sets name and avatar
func (u *User) UpdateProfile(name, avatarURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 500 characters")
	}
	u.Name = strings.TrimSpace(name)
	u.AvatarURL = avatarURL
	u.IncrementVersion()
	return nil
}

// ChangeRole sets the user's role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if u.Role == role {
		return nil
	}
	old := u.Role
	u.Role = role
	u.IncrementVersion()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, old))
	return nil
}

// JoinAgency attaches the user to an agency
func (u *User) JoinAgency(agencyID uuid.UUID) error {
	if agencyID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENCY", "Agency ID cannot be empty")
	}
	u.AgencyID = &agencyID
	u.IncrementVersion()
	return nil
}

// BelongsTo reports whether the user is a member of the agency
func (u *User) BelongsTo(agencyID uuid.UUID) bool {
	return u.AgencyID != nil && *u.AgencyID == agencyID
}

// HasRole reports whether any role has been assigned
func (u *User) HasRole() bool {
	return u.Role != ""
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FindPermission returns the user's permission for a sub-account, if any
func (u *User) FindPermission(subAccountID uuid.UUID) *Permission {
	for i := range u.Permissions {
		if u.Permissions[i].SubAccountID == subAccountID {
			return &u.Permissions[i]
		}
	}
	return nil
}

// HasSubAccountAccess reports whether the user holds a permission with
// access for the sub-account
func (u *User) HasSubAccountAccess(subAccountID uuid.UUID) bool {
	p := u.FindPermission(subAccountID)
	return p != nil && p.Access
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
