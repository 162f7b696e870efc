package handler

import (
	"time"

	"github.com/google/uuid"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/auth"
)

// RegisterRequest is the sign-up body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserResponse is a user as the dashboard sees it
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      string     `json:"role,omitempty"`
	AgencyID  *uuid.UUID `json:"agency_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PermissionResponse is one sub-account access record
type PermissionResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	SubAccountID uuid.UUID `json:"sub_account_id"`
	Access       bool      `json:"access"`
}

// TeamMemberResponse is a user with their sub-account permissions
type TeamMemberResponse struct {
	UserResponse
	Permissions []PermissionResponse `json:"permissions"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// AuthUserDetailsResponse is the signed-in user with their agency
type AuthUserDetailsResponse struct {
	User        UserResponse         `json:"user"`
	Agency      *AgencyResponse      `json:"agency,omitempty"`
	SubAccounts []SubAccountResponse `json:"sub_accounts"`
	Permissions []PermissionResponse `json:"permissions"`
}

func toTokenResponse(t *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           t.AccessToken,
		RefreshToken:          t.RefreshToken,
		AccessTokenExpiresAt:  t.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: t.RefreshTokenExpiresAt,
		TokenType:             t.TokenType,
	}
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
		AgencyID:  u.AgencyID,
		CreatedAt: u.CreatedAt,
	}
}

func toPermissionResponses(perms []identity.Permission) []PermissionResponse {
	out := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		out[i] = PermissionResponse{ID: p.ID, Email: p.Email, SubAccountID: p.SubAccountID, Access: p.Access}
	}
	return out
}

func toTeamResponses(users []*identity.User) []TeamMemberResponse {
	out := make([]TeamMemberResponse, len(users))
	for i, u := range users {
		out[i] = TeamMemberResponse{UserResponse: toUserResponse(u), Permissions: toPermissionResponses(u.Permissions)}
	}
	return out
}

func toAuthResponse(r *identityapp.AuthResult) AuthResponse {
	return AuthResponse{Token: toTokenResponse(r.Tokens), User: toUserResponse(r.User)}
}

func toAuthUserDetailsResponse(d *identityapp.AuthUserDetails) AuthUserDetailsResponse {
	resp := AuthUserDetailsResponse{
		User:        toUserResponse(d.User),
		SubAccounts: toSubAccountResponses(d.SubAccounts),
		Permissions: toPermissionResponses(d.Permissions),
	}
	if d.Agency != nil {
		a := toAgencyResponse(d.Agency)
		resp.Agency = &a
	}
	return resp
}
