// Package auth issues and validates the JWTs carried by API clients and
// tracks revoked tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims are the Lumio JWT claims. AgencyID is empty until the user joins
// or creates an agency.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	AgencyID  string    `json:"agency_id,omitempty"`
	TokenType TokenType `json:"token_type"`
}

// Principal is who a token pair is issued for
type Principal struct {
	UserID   uuid.UUID
	Email    string
	Role     string
	AgencyID *uuid.UUID
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// JWTService signs and validates tokens with HS256
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	now               func() time.Time
}

// NewJWTService creates a new JWT service. The refresh secret falls back to
// the access secret.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     []byte(refreshSecret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		now:               time.Now,
	}
}

// GenerateTokenPair issues a fresh access and refresh token for p
func (s *JWTService) GenerateTokenPair(p Principal) (*TokenPair, error) {
	now := s.now()
	access, err := s.sign(s.claimsFor(p, TokenTypeAccess, now, s.accessExpiration), s.accessSecret)
	if err != nil {
		return nil, err
	}
	// refresh tokens carry no role so a stale role is never trusted on refresh
	refreshClaims := s.claimsFor(Principal{UserID: p.UserID, Email: p.Email}, TokenTypeRefresh, now, s.refreshExpiration)
	refresh, err := s.sign(refreshClaims, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) claimsFor(p Principal, typ TokenType, now time.Time, ttl time.Duration) *Claims {
	c := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   p.UserID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    p.UserID.String(),
		Email:     p.Email,
		Role:      p.Role,
		TokenType: typ,
	}
	if p.AgencyID != nil {
		c.AgencyID = p.AgencyID.String()
	}
	return c
}

func (s *JWTService) sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, secret []byte, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// AccessTokenExpiration returns the access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// UserUUID parses the user id
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// AgencyUUID parses the agency id; ok is false when the user has none
func (c *Claims) AgencyUUID() (id uuid.UUID, ok bool) {
	if c.AgencyID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.AgencyID)
	return id, err == nil
}

// IssuedAtTime returns the issued-at time
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time until expiry, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
