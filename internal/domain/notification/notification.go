// Package notification models the activity log shown in the dashboard bell.
package notification

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
)

// Author is the user a notification is attributed to
type Author struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
}

// Notification is an agency-scoped activity log entry, optionally narrowed
// to one sub-account
type Notification struct {
	shared.AgencyScopedRoot
	Message      string
	SubAccountID *uuid.UUID
	UserID       uuid.UUID
	Author       *Author // loaded by repository
}

// NewActivityLog creates a notification attributed to author.
// The stored message is "<author name> | <description>".
func NewActivityLog(agencyID uuid.UUID, subAccountID *uuid.UUID, author Author, description string) (*Notification, error) {
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY", "Notification must belong to an agency")
	}
	if author.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Notification must have an author")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	n := &Notification{
		AgencyScopedRoot: shared.NewAgencyScopedRoot(agencyID),
		Message:          fmt.Sprintf("%s | %s", author.Name, description),
		SubAccountID:     subAccountID,
		UserID:           author.ID,
		Author:           &author,
	}
	return n, nil
}

// InSubAccount reports whether the notification is scoped to subAccountID
func (n *Notification) InSubAccount(subAccountID uuid.UUID) bool {
	return n.SubAccountID != nil && *n.SubAccountID == subAccountID
}

// VisibleTo filters agency notifications for a viewer inside a sub-account.
// Agency owners and admins see every entry; other roles only entries of the
// sub-account they are viewing. Order is preserved.
func VisibleTo(all []*Notification, role identity.Role, subAccountID uuid.UUID) []*Notification {
	if role.IsAgencyWide() {
		return all
	}
	filtered := make([]*Notification, 0, len(all))
	for _, n := range all {
		if n.InSubAccount(subAccountID) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// VisibleToMember filters agency notifications for a member outside any
// sub-account view. Agency owners and admins see every entry; other roles
// only entries of sub-accounts they hold access to.
func VisibleToMember(all []*Notification, u *identity.User) []*Notification {
	if u.Role.IsAgencyWide() {
		return all
	}
	filtered := make([]*Notification, 0, len(all))
	for _, n := range all {
		if n.SubAccountID != nil && u.HasSubAccountAccess(*n.SubAccountID) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
