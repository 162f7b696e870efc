package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/notification"
)

// ProfileRequest is the business details form shared by agencies and
// sub-accounts. Required fields are checked by the domain so the messages
// match the form.
type ProfileRequest struct {
	Name         string `json:"name"`
	Logo         string `json:"logo"`
	CompanyEmail string `json:"company_email"`
	CompanyPhone string `json:"company_phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

func (r ProfileRequest) toInput() agency.ProfileInput {
	return agency.ProfileInput{
		Name:         r.Name,
		Logo:         r.Logo,
		CompanyEmail: r.CompanyEmail,
		CompanyPhone: r.CompanyPhone,
		Address:      r.Address,
		City:         r.City,
		ZipCode:      r.ZipCode,
		State:        r.State,
		Country:      r.Country,
	}
}

// UpsertAgencyRequest creates (POST) or updates (PUT) an agency. ID is the
// id the client generated for the form.
type UpsertAgencyRequest struct {
	ProfileRequest
	ID         uuid.UUID `json:"id"`
	WhiteLabel bool      `json:"white_label"`
}

// UpdateGoalRequest sets the sub-account goal
type UpdateGoalRequest struct {
	Goal int `json:"goal" binding:"required,gte=1"`
}

// UpsertSubAccountRequest creates or updates a sub-account
type UpsertSubAccountRequest struct {
	ProfileRequest
	ID uuid.UUID `json:"id"`
}

// SendInvitationRequest invites an email to the agency
type SendInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=AGENCY_OWNER AGENCY_ADMIN SUBACCOUNT_USER SUBACCOUNT_GUEST"`
}

// ChangePermissionRequest toggles a member's access to a sub-account
type ChangePermissionRequest struct {
	Email        string    `json:"email" binding:"required,email"`
	SubAccountID uuid.UUID `json:"sub_account_id" binding:"required"`
	Access       bool      `json:"access"`
}

// UpdateRoleRequest changes a member's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=AGENCY_OWNER AGENCY_ADMIN SUBACCOUNT_USER SUBACCOUNT_GUEST"`
}

// AddressResponse is a postal address
type AddressResponse struct {
	Line1   string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// AgencyResponse is an agency
type AgencyResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Logo             string          `json:"logo"`
	CompanyEmail     string          `json:"company_email"`
	CompanyPhone     string          `json:"company_phone"`
	Address          AddressResponse `json:"address"`
	WhiteLabel       bool            `json:"white_label"`
	Goal             int             `json:"goal"`
	CustomerID       string          `json:"customer_id,omitempty"`
	ConnectAccountID string          `json:"connect_account_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SubAccountResponse is a sub-account
type SubAccountResponse struct {
	ID               uuid.UUID       `json:"id"`
	AgencyID         uuid.UUID       `json:"agency_id"`
	Name             string          `json:"name"`
	Logo             string          `json:"logo"`
	CompanyEmail     string          `json:"company_email"`
	CompanyPhone     string          `json:"company_phone"`
	Address          AddressResponse `json:"address"`
	Goal             int             `json:"goal"`
	ConnectAccountID string          `json:"connect_account_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InvitationResponse is an invitation
type InvitationResponse struct {
	ID        uuid.UUID `json:"id"`
	AgencyID  uuid.UUID `json:"agency_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse is one activity log entry
type NotificationResponse struct {
	ID           uuid.UUID            `json:"id"`
	AgencyID     uuid.UUID            `json:"agency_id"`
	SubAccountID *uuid.UUID           `json:"sub_account_id,omitempty"`
	Message      string               `json:"notification"`
	User         *notification.Author `json:"user,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func toAddressResponse(p agency.Profile) AddressResponse {
	return AddressResponse{
		Line1:   p.Address.Line1(),
		City:    p.Address.City(),
		ZipCode: p.Address.PostalCode(),
		State:   p.Address.State(),
		Country: p.Address.Country(),
	}
}

func toAgencyResponse(a *agency.Agency) AgencyResponse {
	return AgencyResponse{
		ID:               a.ID,
		Name:             a.Name,
		Logo:             a.Logo,
		CompanyEmail:     a.CompanyEmail,
		CompanyPhone:     a.CompanyPhone,
		Address:          toAddressResponse(a.Profile),
		WhiteLabel:       a.WhiteLabel,
		Goal:             a.Goal,
		CustomerID:       a.CustomerID,
		ConnectAccountID: a.ConnectAccountID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func toSubAccountResponse(s *agency.SubAccount) SubAccountResponse {
	return SubAccountResponse{
		ID:               s.ID,
		AgencyID:         s.AgencyID,
		Name:             s.Name,
		Logo:             s.Logo,
		CompanyEmail:     s.CompanyEmail,
		CompanyPhone:     s.CompanyPhone,
		Address:          toAddressResponse(s.Profile),
		Goal:             s.Goal,
		ConnectAccountID: s.ConnectAccountID,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toSubAccountResponses(subs []*agency.SubAccount) []SubAccountResponse {
	out := make([]SubAccountResponse, len(subs))
	for i, s := range subs {
		out[i] = toSubAccountResponse(s)
	}
	return out
}

func toInvitationResponse(inv *identity.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        inv.ID,
		AgencyID:  inv.AgencyID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
	}
}

func toNotificationResponses(ns []*notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID:           n.ID,
			AgencyID:     n.AgencyID,
			SubAccountID: n.SubAccountID,
			Message:      n.Message,
			User:         n.Author,
			CreatedAt:    n.CreatedAt,
		}
	}
	return out
}
