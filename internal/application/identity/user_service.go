package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	// ErrNotTeamMember is returned when a permission targets someone outside
	// the sub-account's agency
	ErrNotTeamMember = shared.NewDomainError("FORBIDDEN", "User is not a member of this agency")
	// ErrOwnerRoleLocked is returned when changing or removing the agency owner
	ErrOwnerRoleLocked = shared.NewDomainError("INVALID_STATE", "The agency owner cannot be changed or removed")
	// ErrSingleOwner is returned when promoting someone to owner
	ErrSingleOwner = shared.NewDomainError("INVALID_ROLE", "An agency can only have one owner")
)

// UserService manages the signed-in user and the agency team
type UserService struct {
	users       identity.UserRepository
	permissions identity.PermissionRepository
	agencies    agency.AgencyRepository
	subAccounts agency.SubAccountRepository
	guard       *access.Guard
	activity    ActivityLogger
	revoker     auth.TokenRevoker
	revokeTTL   time.Duration
	events      shared.EventPublisher
	logger      *zap.Logger
}

// UserServiceDeps groups UserService collaborators
type UserServiceDeps struct {
	Users       identity.UserRepository
	Permissions identity.PermissionRepository
	Agencies    agency.AgencyRepository
	SubAccounts agency.SubAccountRepository
	Activity    ActivityLogger
	Revoker     auth.TokenRevoker
	// RevokeTTL bounds how long a user-wide revocation is kept; use the
	// refresh token lifetime
	RevokeTTL time.Duration
	Events    shared.EventPublisher
}

// NewUserService creates a UserService
func NewUserService(deps UserServiceDeps, logger *zap.Logger) *UserService {
	return &UserService{
		users:       deps.Users,
		permissions: deps.Permissions,
		agencies:    deps.Agencies,
		subAccounts: deps.SubAccounts,
		guard:       access.NewGuard(deps.Users),
		activity:    deps.Activity,
		revoker:     deps.Revoker,
		revokeTTL:   deps.RevokeTTL,
		events:      deps.Events,
		logger:      logger,
	}
}

// InitUser sets the signed-in user's role and agency. The role is only
// overwritten when given; a user without any role becomes SUBACCOUNT_USER.
func (s *UserService) InitUser(ctx context.Context, userID uuid.UUID, in InitUserInput) (*identity.User, error) {
	user, err := s.guard.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" && !user.HasRole() {
		role = identity.RoleSubAccountUser
	}
	if role != "" {
		if err := user.ChangeRole(role); err != nil {
			return nil, err
		}
	}
	if in.AgencyID != nil {
		if err := user.JoinAgency(*in.AgencyID); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, user)
	return user, nil
}

// GetAuthUserDetails loads the user with their agency, the sub-accounts they
// can see and their permissions. Agency-wide roles see every sub-account,
// everyone else only those they hold access to.
func (s *UserService) GetAuthUserDetails(ctx context.Context, userID uuid.UUID) (*AuthUserDetails, error) {
	user, err := s.guard.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := &AuthUserDetails{
		User:        user,
		SubAccounts: []*agency.SubAccount{},
		Permissions: user.Permissions,
	}
	if user.AgencyID == nil {
		return details, nil
	}

	ag, err := s.agencies.FindByID(ctx, *user.AgencyID)
	if errors.Is(err, shared.ErrNotFound) {
		return details, nil
	}
	if err != nil {
		return nil, err
	}
	details.Agency = ag

	subs, err := s.subAccounts.FindByAgency(ctx, ag.ID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if user.Role.IsAgencyWide() || user.HasSubAccountAccess(sub.ID) {
			details.SubAccounts = append(details.SubAccounts, sub)
		}
	}
	return details, nil
}

// ChangeUserPermission grants or removes a team member's access to a
// sub-account. The sub-account must exist and the actor must administer its
// agency.
func (s *UserService) ChangeUserPermission(ctx context.Context, actorID uuid.UUID, in ChangePermissionInput) (*identity.Permission, error) {
	sub, err := s.subAccounts.FindByID(ctx, in.SubAccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, sub.AgencyID); err != nil {
		return nil, err
	}

	member, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrNotTeamMember
	}
	if err != nil {
		return nil, err
	}
	if !member.BelongsTo(sub.AgencyID) {
		return nil, ErrNotTeamMember
	}

	perm, err := s.permissions.FindByEmailAndSubAccount(ctx, member.Email, sub.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if perm, err = identity.NewPermission(member.Email, sub.ID, in.Access); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		perm.SetAccess(in.Access)
	}
	if err := s.permissions.Upsert(ctx, perm); err != nil {
		return nil, err
	}

	verb := "Gave"
	if !in.Access {
		verb = "Removed"
	}
	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:      &actorID,
		AgencyID:     &sub.AgencyID,
		SubAccountID: &sub.ID,
		Description:  fmt.Sprintf("%s %s access to | %s", verb, member.Name, sub.Name),
	})
	return perm, nil
}

// UpdateUserRole changes a team member's role and revokes their tokens.
// The owner keeps their role and nobody else can become owner.
func (s *UserService) UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, role identity.Role) (*identity.User, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == identity.RoleAgencyOwner {
		return nil, ErrSingleOwner
	}
	target, agencyID, err := s.teamMember(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == identity.RoleAgencyOwner {
		return nil, ErrOwnerRoleLocked
	}
	if target.Role == role {
		return target, nil
	}

	if err := target.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.events, s.logger, target)
	s.revokeSessions(ctx, target.ID)

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &actorID,
		AgencyID:    &agencyID,
		Description: fmt.Sprintf("Updated %s information", target.Name),
	})
	return target, nil
}

// DeleteUser removes a team member and revokes their tokens
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	target, agencyID, err := s.teamMember(ctx, actorID, userID)
	if err != nil {
		return err
	}
	if target.Role == identity.RoleAgencyOwner {
		return ErrOwnerRoleLocked
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}
	s.revokeSessions(ctx, target.ID)

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &actorID,
		AgencyID:    &agencyID,
		Description: fmt.Sprintf("Removed %s from the team", target.Name),
	})
	s.logger.Info("Team member deleted",
		zap.String("user_id", target.ID.String()),
		zap.String("agency_id", agencyID.String()))
	return nil
}

// ListTeam lists the agency's users for a member of that agency
func (s *UserService) ListTeam(ctx context.Context, actorID, agencyID uuid.UUID) ([]*identity.User, error) {
	if _, err := s.guard.RequireAgencyMember(ctx, actorID, agencyID); err != nil {
		return nil, err
	}
	return s.users.FindByAgency(ctx, agencyID)
}

// teamMember loads userID and checks that actorID administers their agency
func (s *UserService) teamMember(ctx context.Context, actorID, userID uuid.UUID) (*identity.User, uuid.UUID, error) {
	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if target.AgencyID == nil {
		return nil, uuid.Nil, ErrNotTeamMember
	}
	agencyID := *target.AgencyID
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, agencyID); err != nil {
		return nil, uuid.Nil, err
	}
	return target, agencyID, nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
