package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	"github.com/lumio/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// GateDecisionKey holds the *access.Decision of an authorized sub-account request
const GateDecisionKey = "gate_decision"

// SubAccountAuthorizer decides whether a user may open a sub-account
type SubAccountAuthorizer interface {
	Authorize(ctx context.Context, userID, subAccountID uuid.UUID) (*access.Decision, error)
}

// SubAccountGate runs the gate for routes carrying a :subAccountId param.
// Denials answer 403 with the unauthorized view; unknown callers get 401
// with a redirect to sign-in.
func SubAccountGate(gate SubAccountAuthorizer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := GetRequestID(c)
		subID, err := uuid.Parse(c.Param("subAccountId"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "Invalid sub account id", requestID))
			return
		}
		actorID, ok := ActorID(c)
		if !ok {
			abortRedirect(c, requestID)
			return
		}

		decision, err := gate.Authorize(c.Request.Context(), actorID, subID)
		if err != nil {
			log.Error("Sub account gate failed",
				zap.String("sub_account_id", subID.String()),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An internal error occurred", requestID))
			return
		}

		switch decision.Outcome {
		case access.Allowed:
			c.Set(GateDecisionKey, decision)
			c.Next()
		case access.Redirect:
			abortRedirect(c, requestID)
		default:
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, access.UnauthorizedDescription, requestID)
			resp.Meta = &dto.Meta{Title: access.UnauthorizedTitle, Description: access.UnauthorizedDescription}
			c.AbortWithStatusJSON(http.StatusForbidden, resp)
		}
	}
}

func abortRedirect(c *gin.Context, requestID string) {
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Sign in to continue", requestID)
	resp.Meta = &dto.Meta{RedirectTo: access.RedirectLocation}
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}

// GetGateDecision returns the decision stored by SubAccountGate
func GetGateDecision(c *gin.Context) *access.Decision {
	if v, ok := c.Get(GateDecisionKey); ok {
		if d, ok := v.(*access.Decision); ok {
			return d
		}
	}
	return nil
}
