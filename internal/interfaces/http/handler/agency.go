package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	agencyapp "github.com/lumio/backend/internal/application/agency"
	billingapp "github.com/lumio/backend/internal/application/billing"
	identityapp "github.com/lumio/backend/internal/application/identity"
	notificationapp "github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/identity"
)

// AgencyHandler serves the agency dashboard
type AgencyHandler struct {
	BaseHandler
	agencies      *agencyapp.Service
	users         *identityapp.UserService
	invitations   *identityapp.InvitationService
	notifications *notificationapp.Service
	launchpad     *billingapp.LaunchpadService
}

// NewAgencyHandler creates an AgencyHandler
func NewAgencyHandler(
	agencies *agencyapp.Service,
	users *identityapp.UserService,
	invitations *identityapp.InvitationService,
	notifications *notificationapp.Service,
	launchpad *billingapp.LaunchpadService,
) *AgencyHandler {
	return &AgencyHandler{
		agencies:      agencies,
		users:         users,
		invitations:   invitations,
		notifications: notifications,
		launchpad:     launchpad,
	}
}

// Create upserts an agency from the onboarding form
func (h *AgencyHandler) Create(c *gin.Context) {
	h.upsert(c, uuid.Nil)
}

// Update saves the agency details form
func (h *AgencyHandler) Update(c *gin.Context) {
	agencyID, ok := h.uuidParam(c, "agencyId")
	if !ok {
		return
	}
	h.upsert(c, agencyID)
}

func (h *AgencyHandler) upsert(c *gin.Context, pathID uuid.UUID) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	var req UpsertAgencyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	id := req.ID
	if pathID != uuid.Nil {
		id = pathID
	}
	ag, err := h.agencies.UpsertAgency(c.Request.Context(), actorID, agencyapp.UpsertAgencyInput{
		ID:         id,
		Profile:    req.toInput(),
		WhiteLabel: req.WhiteLabel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAgencyResponse(ag))
}

// Get returns an agency to one of its members
func (h *AgencyHandler) Get(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	ag, err := h.agencies.GetAgency(c.Request.Context(), actorID, agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAgencyResponse(ag))
}

// UpdateGoal sets the sub-account goal
func (h *AgencyHandler) UpdateGoal(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ag, err := h.agencies.UpdateAgencyGoal(c.Request.Context(), actorID, agencyID, req.Goal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAgencyResponse(ag))
}

// Delete removes the agency with ?confirm=true
func (h *AgencyHandler) Delete(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	if err := h.agencies.DeleteAgency(c.Request.Context(), actorID, agencyID, c.Query("confirm") == "true"); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Deleted your agency and all subaccounts"})
}

// Launchpad returns the onboarding checklist. A code query parameter
// completes the payment account connection first and needs an owner or
// admin.
func (h *AgencyHandler) Launchpad(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.agencies.GetAgency(ctx, actorID, agencyID); err != nil {
		h.HandleError(c, err)
		return
	}
	code := c.Query("code")
	if code != "" {
		if err := h.launchpad.AuthorizeConnect(ctx, actorID, billingapp.AccountTypeAgency, agencyID); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	lp, err := h.launchpad.AgencyLaunchpad(ctx, agencyID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lp)
}

// ListSubAccounts lists the sub-accounts the caller can see
func (h *AgencyHandler) ListSubAccounts(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	subs, err := h.agencies.ListSubAccounts(c.Request.Context(), actorID, agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toSubAccountResponses(subs), len(subs))
}

// CreateSubAccount adds a sub-account to the agency
func (h *AgencyHandler) CreateSubAccount(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	var req UpsertSubAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.agencies.UpsertSubAccount(c.Request.Context(), actorID, agencyapp.UpsertSubAccountInput{
		ID:       req.ID,
		AgencyID: agencyID,
		Profile:  req.toInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSubAccountResponse(sub))
}

// Team lists the agency's members with their permissions
func (h *AgencyHandler) Team(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	users, err := h.users.ListTeam(c.Request.Context(), actorID, agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toTeamResponses(users), len(users))
}

// Notifications lists the agency's activity log, newest first
func (h *AgencyHandler) Notifications(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	ns, err := h.notifications.ListForMember(c.Request.Context(), actorID, agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, toNotificationResponses(ns), len(ns))
}

// SendInvitation invites an email address to the agency
func (h *AgencyHandler) SendInvitation(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	var req SendInvitationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inv, err := h.invitations.SendInvitation(c.Request.Context(), actorID, identityapp.SendInvitationInput{
		AgencyID: agencyID,
		Email:    req.Email,
		Role:     identity.Role(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toInvitationResponse(inv))
}

// ListInvitations lists the agency's invitations
func (h *AgencyHandler) ListInvitations(c *gin.Context) {
	actorID, agencyID, ok := h.agencyRequest(c)
	if !ok {
		return
	}
	invs, err := h.invitations.ListInvitations(c.Request.Context(), actorID, agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]InvitationResponse, len(invs))
	for i, inv := range invs {
		out[i] = toInvitationResponse(inv)
	}
	h.SuccessList(c, out, len(out))
}

func (h *AgencyHandler) agencyRequest(c *gin.Context) (actorID, agencyID uuid.UUID, ok bool) {
	if actorID, ok = h.actorID(c); !ok {
		return
	}
	agencyID, ok = h.uuidParam(c, "agencyId")
	return
}
