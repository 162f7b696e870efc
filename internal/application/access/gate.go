package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/notification"
	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of a gate check
type Outcome int

const (
	// Allowed lets the request through
	Allowed Outcome = iota
	// Unauthorized renders the unauthorized view
	Unauthorized
	// Redirect sends the client back to sign-in
	Redirect
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthorized:
		return "unauthorized"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Unauthorized view content
const (
	UnauthorizedTitle       = "Unauthorized access!"
	UnauthorizedDescription = "Please contact support or your agency owner to get access"
	RedirectLocation        = "/"
)

// Decision is what the gate decided for one request. User, SubAccount and
// Notifications are set only when Outcome is Allowed.
type Decision struct {
	Outcome       Outcome
	AgencyID      uuid.UUID
	User          *identity.User
	SubAccount    *agency.SubAccount
	Notifications []*notification.Notification
}

// InvitationVerifier accepts a pending invitation for the user and returns
// the agency they belong to afterwards. An unknown user is reported as
// shared.ErrUnauthorized.
type InvitationVerifier interface {
	VerifyAndAcceptInvitation(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

// NotificationReader lists an agency's notifications newest first
type NotificationReader interface {
	GetNotificationAndUser(ctx context.Context, agencyID uuid.UUID) ([]*notification.Notification, error)
}

// SubAccountGate decides whether a signed-in user may enter a sub-account
type SubAccountGate struct {
	invitations   InvitationVerifier
	guard         *Guard
	subAccounts   agency.SubAccountRepository
	notifications NotificationReader
	logger        *zap.Logger
}

// NewSubAccountGate creates a SubAccountGate
func NewSubAccountGate(
	invitations InvitationVerifier,
	users identity.UserRepository,
	subAccounts agency.SubAccountRepository,
	notifications NotificationReader,
	logger *zap.Logger,
) *SubAccountGate {
	return &SubAccountGate{
		invitations:   invitations,
		guard:         NewGuard(users),
		subAccounts:   subAccounts,
		notifications: notifications,
		logger:        logger,
	}
}

// Authorize runs the gate for userID entering subAccountID. A non-nil error
// means the decision could not be made; denials are reported in Outcome.
func (g *SubAccountGate) Authorize(ctx context.Context, userID, subAccountID uuid.UUID) (*Decision, error) {
	agencyID, err := g.invitations.VerifyAndAcceptInvitation(ctx, userID)
	if errors.Is(err, shared.ErrUnauthorized) {
		return &Decision{Outcome: Redirect}, nil
	}
	if err != nil {
		return nil, err
	}
	if agencyID == nil {
		return g.deny(userID, subAccountID, "no agency"), nil
	}

	user, err := g.guard.CurrentUser(ctx, userID)
	if errors.Is(err, shared.ErrUnauthorized) {
		return &Decision{Outcome: Redirect}, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.HasRole() {
		return g.deny(userID, subAccountID, "no role"), nil
	}
	if !user.HasSubAccountAccess(subAccountID) {
		return g.deny(userID, subAccountID, "no permission"), nil
	}

	var (
		sub  *agency.SubAccount
		logs []*notification.Notification
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		sub, err = g.subAccounts.FindByID(egCtx, subAccountID)
		return err
	})
	eg.Go(func() error {
		var err error
		logs, err = g.notifications.GetNotificationAndUser(egCtx, *agencyID)
		return err
	})
	if err := eg.Wait(); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return g.deny(userID, subAccountID, "sub-account not found"), nil
		}
		return nil, err
	}
	if sub.AgencyID != *agencyID {
		return g.deny(userID, subAccountID, "sub-account outside agency"), nil
	}

	return &Decision{
		Outcome:       Allowed,
		AgencyID:      *agencyID,
		User:          user,
		SubAccount:    sub,
		Notifications: notification.VisibleTo(logs, user.Role, subAccountID),
	}, nil
}

func (g *SubAccountGate) deny(userID, subAccountID uuid.UUID, reason string) *Decision {
	g.logger.Info("Sub-account access denied",
		zap.String("user_id", userID.String()),
		zap.String("sub_account_id", subAccountID.String()),
		zap.String("reason", reason))
	return &Decision{Outcome: Unauthorized}
}
