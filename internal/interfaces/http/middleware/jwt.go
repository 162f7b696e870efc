package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTAgencyIDKey = "jwt_agency_id"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// RevocationChecker reports whether a validated token has been revoked
type RevocationChecker interface {
	CheckRevoked(ctx context.Context, claims *auth.Claims) error
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; nil skips the revocation check
	Revocations RevocationChecker
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService, revocations RevocationChecker, log *zap.Logger) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		Logger:      log,
	})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		for _, skipPath := range cfg.SkipPaths {
			if c.Request.URL.Path == skipPath {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.Revocations != nil {
			if err := cfg.Revocations.CheckRevoked(c.Request.Context(), claims); err != nil {
				if errors.Is(err, shared.ErrUnauthorized) {
					handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
					return
				}
				// a broken revocation store must not lock everyone out
				cfg.Logger.Error("Failed to check token revocation",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTAgencyIDKey, claims.AgencyID)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		if claims.AgencyID != "" {
			ctx = logger.WithAgencyID(ctx, claims.AgencyID)
		}
		c.Request = c.Request.WithContext(ctx)

		cfg.Logger.Debug("JWT authentication successful",
			zap.String("user_id", claims.UserID),
			zap.String("agency_id", claims.AgencyID),
		)
		c.Next()
	}
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, msg := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, msg = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, msg, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTAgencyID retrieves the agency ID from JWT claims in context; empty
// until the user belongs to an agency
func GetJWTAgencyID(c *gin.Context) string {
	return c.GetString(JWTAgencyIDKey)
}

// ActorID parses the authenticated user id
func ActorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
