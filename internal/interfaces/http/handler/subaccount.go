package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	agencyapp "github.com/lumio/backend/internal/application/agency"
	billingapp "github.com/lumio/backend/internal/application/billing"
	"github.com/lumio/backend/internal/interfaces/http/middleware"
)

// SubAccountHandler serves the gated sub-account routes. Every route runs
// behind middleware.SubAccountGate.
type SubAccountHandler struct {
	BaseHandler
	agencies  *agencyapp.Service
	launchpad *billingapp.LaunchpadService
}

// NewSubAccountHandler creates a SubAccountHandler
func NewSubAccountHandler(agencies *agencyapp.Service, launchpad *billingapp.LaunchpadService) *SubAccountHandler {
	return &SubAccountHandler{agencies: agencies, launchpad: launchpad}
}

// ShellResponse is what the sub-account layout renders
type ShellResponse struct {
	User          UserResponse           `json:"user"`
	SubAccount    SubAccountResponse     `json:"sub_account"`
	Notifications []NotificationResponse `json:"notifications"`
}

// Shell returns the gate decision for the sub-account layout
func (h *SubAccountHandler) Shell(c *gin.Context) {
	d := middleware.GetGateDecision(c)
	h.Success(c, ShellResponse{
		User:          toUserResponse(d.User),
		SubAccount:    toSubAccountResponse(d.SubAccount),
		Notifications: toNotificationResponses(d.Notifications),
	})
}

// Get returns the sub-account
func (h *SubAccountHandler) Get(c *gin.Context) {
	h.Success(c, toSubAccountResponse(middleware.GetGateDecision(c).SubAccount))
}

// Update saves the sub-account details form
func (h *SubAccountHandler) Update(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	var req UpsertSubAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	current := middleware.GetGateDecision(c).SubAccount
	sub, err := h.agencies.UpsertSubAccount(c.Request.Context(), actorID, agencyapp.UpsertSubAccountInput{
		ID:       current.ID,
		AgencyID: current.AgencyID,
		Profile:  req.toInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSubAccountResponse(sub))
}

// Delete removes the sub-account with ?confirm=true
func (h *SubAccountHandler) Delete(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	subID := subAccountID(c)
	if err := h.agencies.DeleteSubAccount(c.Request.Context(), actorID, subID, c.Query("confirm") == "true"); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Launchpad returns the sub-account onboarding checklist. A code query
// parameter is only exchanged for users allowed to connect the sub-account.
func (h *SubAccountHandler) Launchpad(c *gin.Context) {
	ctx := c.Request.Context()
	decision := middleware.GetGateDecision(c)
	code := c.Query("code")
	if code != "" {
		if err := h.launchpad.AuthorizeConnect(ctx, decision.User.ID, billingapp.AccountTypeSubAccount, decision.SubAccount.ID); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	lp, err := h.launchpad.SubAccountLaunchpad(ctx, decision.SubAccount.ID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lp)
}

// subAccountID returns the sub-account the gate authorized
func subAccountID(c *gin.Context) uuid.UUID {
	return middleware.GetGateDecision(c).SubAccount.ID
}
