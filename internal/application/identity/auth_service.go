// Package identity holds the sign-in, team and invitation use cases.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// ErrEmailTaken is returned when signing up with a registered email
var ErrEmailTaken = shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revoker    auth.TokenRevoker
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revoker auth.TokenRevoker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoker:    revoker,
		events:     events,
		logger:     logger,
	}
}

// Register creates a user without a role or agency and signs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(input.Name, input.Email, "")
	if err != nil {
		return nil, err
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, user)

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Refresh rotates a refresh token. Role and agency are reloaded from the
// store so the new access token reflects the current membership.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
		return nil, err
	}
	return s.issue(user)
}

// Logout revokes the presented token
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.revoker.RevokeToken(ctx, claims.ID, claims.RemainingTTL())
}

// CheckRevoked reports ErrUnauthorized when the token or every token of its
// user has been revoked
func (s *AuthService) CheckRevoked(ctx context.Context, claims *auth.Claims) error {
	return s.checkRevoked(ctx, claims)
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return shared.ErrUnauthorized
	}
	revoked, err = s.revoker.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return shared.ErrUnauthorized
	}
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	tokens, err := s.jwtService.GenerateTokenPair(principalOf(user))
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, err
	}
	return &AuthResult{Tokens: tokens, User: user}, nil
}

func principalOf(user *identity.User) auth.Principal {
	var agencyID *uuid.UUID
	if user.AgencyID != nil {
		id := *user.AgencyID
		agencyID = &id
	}
	return auth.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role.String(),
		AgencyID: agencyID,
	}
}
