package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAuthResponse(result))
}

// Login exchanges credentials for a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// RefreshToken rotates the token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// Logout revokes the presented access token
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetJWTClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the signed-in user with agency, sub-accounts and permissions
func (h *AuthHandler) Me(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	details, err := h.userService.GetAuthUserDetails(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthUserDetailsResponse(details))
}
