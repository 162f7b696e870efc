// Package notification records and reads the agency activity log.
package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/notification"
	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrScopeRequired is returned when neither an agency nor a sub-account is given
var ErrScopeRequired = shared.NewDomainError("INVALID_INPUT", "You need to provide atleast an agency Id or subaccount Id")

// ActivityInput describes one activity log entry
type ActivityInput struct {
	// ActorID is the signed-in user. When nil, the entry is attributed to
	// the agency owner.
	ActorID      *uuid.UUID
	AgencyID     *uuid.UUID
	SubAccountID *uuid.UUID
	Description  string
}

// Service writes activity log entries
type Service struct {
	repo        notification.Repository
	users       identity.UserRepository
	subAccounts agency.SubAccountRepository
	logger      *zap.Logger
}

// NewService creates a notification service
func NewService(
	repo notification.Repository,
	users identity.UserRepository,
	subAccounts agency.SubAccountRepository,
	logger *zap.Logger,
) *Service {
	return &Service{repo: repo, users: users, subAccounts: subAccounts, logger: logger}
}

// SaveActivityLog stores "<author name> | <description>" under the agency.
// The agency is resolved from the sub-account when absent. When no author
// can be resolved nothing is stored and (nil, nil) is returned.
func (s *Service) SaveActivityLog(ctx context.Context, in ActivityInput) (*notification.Notification, error) {
	agencyID, err := s.resolveAgency(ctx, in)
	if err != nil {
		return nil, err
	}

	author, err := s.resolveAuthor(ctx, in.ActorID, agencyID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		s.logger.Warn("Could not find a user for activity log",
			zap.String("agency_id", agencyID.String()),
			zap.String("description", in.Description))
		return nil, nil
	}

	n, err := notification.NewActivityLog(agencyID, in.SubAccountID, notification.Author{
		ID:        author.ID,
		Name:      author.Name,
		Email:     author.Email,
		AvatarURL: author.AvatarURL,
	}, in.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) resolveAgency(ctx context.Context, in ActivityInput) (uuid.UUID, error) {
	if in.AgencyID != nil && *in.AgencyID != uuid.Nil {
		return *in.AgencyID, nil
	}
	if in.SubAccountID == nil || *in.SubAccountID == uuid.Nil {
		return uuid.Nil, ErrScopeRequired
	}
	sub, err := s.subAccounts.FindByID(ctx, *in.SubAccountID)
	if err != nil {
		return uuid.Nil, err
	}
	return sub.AgencyID, nil
}

func (s *Service) resolveAuthor(ctx context.Context, actorID *uuid.UUID, agencyID uuid.UUID) (*identity.User, error) {
	var (
		user *identity.User
		err  error
	)
	if actorID != nil {
		user, err = s.users.FindByID(ctx, *actorID)
	} else {
		user, err = s.users.FindAgencyOwner(ctx, agencyID)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// GetNotificationAndUser lists the agency's notifications newest first with
// their authors
func (s *Service) GetNotificationAndUser(ctx context.Context, agencyID uuid.UUID) ([]*notification.Notification, error) {
	return s.repo.FindByAgencyWithAuthor(ctx, agencyID)
}

// ListForMember returns the agency's notifications to one of its members.
// Sub-account roles only see entries of sub-accounts they can access.
func (s *Service) ListForMember(ctx context.Context, actorID, agencyID uuid.UUID) ([]*notification.Notification, error) {
	member, err := access.NewGuard(s.users).RequireAgencyMember(ctx, actorID, agencyID)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.FindByAgencyWithAuthor(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	return notification.VisibleToMember(all, member), nil
}
