package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvitationPending is returned when the email already has a pending
// invitation
var ErrInvitationPending = shared.NewDomainError("ALREADY_EXISTS", "This email already has a pending invitation")

// ErrNoUser is returned when the signed-in user no longer exists
var ErrNoUser = shared.NewDomainError("UNAUTHORIZED", "Sign in to continue")

// InvitationService invites people to an agency and accepts invitations
type InvitationService struct {
	invitations identity.InvitationRepository
	users       identity.UserRepository
	guard       *access.Guard
	activity    ActivityLogger
	events      shared.EventPublisher
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewInvitationService creates an InvitationService. Pending invitations
// older than ttl are revoked by ExpireStale; ttl <= 0 disables expiry.
func NewInvitationService(
	invitations identity.InvitationRepository,
	users identity.UserRepository,
	activity ActivityLogger,
	events shared.EventPublisher,
	ttl time.Duration,
	logger *zap.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		users:       users,
		guard:       access.NewGuard(users),
		activity:    activity,
		events:      events,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// SendInvitation creates a pending invitation. The invitation email goes
// out from the InvitationCreated event.
func (s *InvitationService) SendInvitation(ctx context.Context, actorID uuid.UUID, in SendInvitationInput) (*identity.Invitation, error) {
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, in.AgencyID); err != nil {
		return nil, err
	}

	inv, err := identity.NewInvitation(in.AgencyID, in.Email, in.Role)
	if err != nil {
		return nil, err
	}
	if _, err := s.invitations.FindPendingByEmail(ctx, inv.Email); err == nil {
		return nil, ErrInvitationPending
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if err := s.invitations.Create(ctx, inv); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrInvitationPending
		}
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, inv)

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &actorID,
		AgencyID:    &in.AgencyID,
		Description: "Invited " + inv.Email,
	})
	s.logger.Info("Invitation sent",
		zap.String("invitation_id", inv.ID.String()),
		zap.String("agency_id", inv.AgencyID.String()),
		zap.String("role", inv.Role.String()))
	return inv, nil
}

// RevokeInvitation cancels a pending invitation
func (s *InvitationService) RevokeInvitation(ctx context.Context, actorID, invitationID uuid.UUID) (*identity.Invitation, error) {
	inv, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, inv.AgencyID); err != nil {
		return nil, err
	}
	if err := inv.Revoke(); err != nil {
		return nil, err
	}
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvitations lists the agency's invitations, newest first
func (s *InvitationService) ListInvitations(ctx context.Context, actorID, agencyID uuid.UUID) ([]*identity.Invitation, error) {
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, agencyID); err != nil {
		return nil, err
	}
	return s.invitations.FindByAgency(ctx, agencyID)
}

// VerifyAndAcceptInvitation accepts a pending invitation addressed to the
// user's email and returns the agency they now belong to. Without an
// invitation it returns the user's current agency, which may be nil.
// Agency owners never switch agencies: their invitation stays pending.
func (s *InvitationService) VerifyAndAcceptInvitation(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, err
	}

	inv, err := s.invitations.FindPendingByEmail(ctx, user.Email)
	if errors.Is(err, shared.ErrNotFound) {
		return user.AgencyID, nil
	}
	if err != nil {
		return nil, err
	}
	if inv.IsExpired(s.ttl, s.now()) {
		s.expire(ctx, inv)
		return user.AgencyID, nil
	}
	if user.Role == identity.RoleAgencyOwner {
		s.logger.Warn("Agency owner cannot accept an invitation to another agency",
			zap.String("user_id", user.ID.String()),
			zap.String("invitation_id", inv.ID.String()))
		return user.AgencyID, nil
	}

	if err := user.ChangeRole(inv.Role); err != nil {
		return nil, err
	}
	if err := user.JoinAgency(inv.AgencyID); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, user)

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &user.ID,
		AgencyID:    &inv.AgencyID,
		Description: "Joined",
	})

	if err := inv.Accept(); err != nil {
		return nil, err
	}
	if err := s.invitations.Update(ctx, inv); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, inv)

	agencyID := inv.AgencyID
	return &agencyID, nil
}

// ExpireStale revokes pending invitations older than the configured TTL and
// returns how many were revoked
func (s *InvitationService) ExpireStale(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	stale, err := s.invitations.FindPendingCreatedBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, inv := range stale {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		if s.expire(ctx, inv) {
			expired++
		}
	}
	if expired > 0 {
		s.logger.Info("Expired stale invitations", zap.Int("count", expired))
	}
	return expired, nil
}

func (s *InvitationService) expire(ctx context.Context, inv *identity.Invitation) bool {
	if err := inv.Revoke(); err != nil {
		return false
	}
	if err := s.invitations.Update(ctx, inv); err != nil {
		s.logger.Error("Failed to expire invitation",
			zap.String("invitation_id", inv.ID.String()),
			zap.Error(err))
		return false
	}
	return true
}
