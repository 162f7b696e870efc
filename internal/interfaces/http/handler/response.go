package handler

import "github.com/google/uuid"

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// AcceptInvitationResponse names the agency the caller belongs to; nil when
// there was nothing to accept
type AcceptInvitationResponse struct {
	AgencyID *uuid.UUID `json:"agency_id"`
}
