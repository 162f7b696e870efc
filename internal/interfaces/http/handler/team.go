package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/domain/identity"
)

// TeamHandler manages members, their permissions and invitations
type TeamHandler struct {
	BaseHandler
	users       *identityapp.UserService
	invitations *identityapp.InvitationService
}

// NewTeamHandler creates a TeamHandler
func NewTeamHandler(users *identityapp.UserService, invitations *identityapp.InvitationService) *TeamHandler {
	return &TeamHandler{users: users, invitations: invitations}
}

// ChangePermission grants or removes access to a sub-account
func (h *TeamHandler) ChangePermission(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	var req ChangePermissionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	perm, err := h.users.ChangeUserPermission(c.Request.Context(), actorID, identityapp.ChangePermissionInput{
		Email:        req.Email,
		SubAccountID: req.SubAccountID,
		Access:       req.Access,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPermissionResponses([]identity.Permission{*perm})[0])
}

// UpdateRole changes a member's role
func (h *TeamHandler) UpdateRole(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	userID, ok := h.uuidParam(c, "userId")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateUserRole(c.Request.Context(), actorID, userID, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// DeleteUser removes a member from the agency
func (h *TeamHandler) DeleteUser(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	userID, ok := h.uuidParam(c, "userId")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), actorID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RevokeInvitation revokes a pending invitation
func (h *TeamHandler) RevokeInvitation(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	invitationID, ok := h.uuidParam(c, "invitationId")
	if !ok {
		return
	}
	inv, err := h.invitations.RevokeInvitation(c.Request.Context(), actorID, invitationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toInvitationResponse(inv))
}

// AcceptInvitation accepts the caller's pending invitation, if any, and
// returns the agency they belong to
func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	actorID, ok := h.actorID(c)
	if !ok {
		return
	}
	agencyID, err := h.invitations.VerifyAndAcceptInvitation(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AcceptInvitationResponse{AgencyID: agencyID})
}
