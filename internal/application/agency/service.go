// Package agency holds the agency and sub-account use cases.
package agency

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	billingapp "github.com/lumio/backend/internal/application/billing"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DeletedAgencyMessage is reported after an agency is deleted
const DeletedAgencyMessage = "Deleted your agency and all subaccounts"

var (
	// ErrAlreadyInAgency is returned when a member of one agency creates another
	ErrAlreadyInAgency = shared.NewDomainError("CONFLICT", "You already belong to an agency")
	// ErrOwnerOnly is returned when a non-owner deletes the agency
	ErrOwnerOnly = shared.NewDomainError("FORBIDDEN", "Only the agency owner can do this")
)

// CustomerCreator creates the billing customer of a new agency
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, in billingapp.CreateCustomerInput) (string, error)
}

// UserInitializer assigns role and agency to the signed-in user
type UserInitializer interface {
	InitUser(ctx context.Context, userID uuid.UUID, in identityapp.InitUserInput) (*identity.User, error)
}

// UpsertAgencyInput is the agency form. ID is the client-generated id; an
// unknown or nil ID creates the agency.
type UpsertAgencyInput struct {
	ID         uuid.UUID
	Profile    agency.ProfileInput
	WhiteLabel bool
}

// UpsertSubAccountInput is the sub-account form. A nil ID creates a
// sub-account under AgencyID.
type UpsertSubAccountInput struct {
	ID       uuid.UUID
	AgencyID uuid.UUID
	Profile  agency.ProfileInput
}

// Deps groups Service collaborators
type Deps struct {
	Agencies    agency.AgencyRepository
	SubAccounts agency.SubAccountRepository
	Users       identity.UserRepository
	Permissions identity.PermissionRepository
	Customers   CustomerCreator
	Owners      UserInitializer
	Activity    identityapp.ActivityLogger
	Events      shared.EventPublisher
}

// Service manages agencies and their sub-accounts
type Service struct {
	agencies    agency.AgencyRepository
	subAccounts agency.SubAccountRepository
	users       identity.UserRepository
	permissions identity.PermissionRepository
	customers   CustomerCreator
	owners      UserInitializer
	activity    identityapp.ActivityLogger
	events      shared.EventPublisher
	guard       *access.Guard
	logger      *zap.Logger
}

// NewService creates an agency Service
func NewService(deps Deps, logger *zap.Logger) *Service {
	return &Service{
		agencies:    deps.Agencies,
		subAccounts: deps.SubAccounts,
		users:       deps.Users,
		permissions: deps.Permissions,
		customers:   deps.Customers,
		owners:      deps.Owners,
		activity:    deps.Activity,
		events:      deps.Events,
		guard:       access.NewGuard(deps.Users),
		logger:      logger,
	}
}

// UpsertAgency creates or updates an agency. A new agency first gets a
// billing customer; without one nothing is stored. The creator becomes its
// AGENCY_OWNER. Updates keep goal, customer and connected account.
func (s *Service) UpsertAgency(ctx context.Context, actorID uuid.UUID, in UpsertAgencyInput) (*agency.Agency, error) {
	profile, err := in.Profile.Build("Agency")
	if err != nil {
		return nil, err
	}

	if in.ID != uuid.Nil {
		existing, err := s.agencies.FindByID(ctx, in.ID)
		switch {
		case err == nil:
			return s.updateAgency(ctx, actorID, existing, profile, in.WhiteLabel)
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	actor, err := s.guard.CurrentUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.AgencyID != nil {
		return nil, ErrAlreadyInAgency
	}

	addr := billingapp.Address{
		Line1:      profile.Address.Line1(),
		City:       profile.Address.City(),
		State:      profile.Address.State(),
		PostalCode: profile.Address.PostalCode(),
		Country:    profile.Address.Country(),
	}
	customerID, err := s.customers.CreateCustomer(ctx, billingapp.CreateCustomerInput{
		Email:    profile.CompanyEmail,
		Name:     profile.Name,
		Shipping: billingapp.Shipping{Name: profile.Name, Address: addr},
		Address:  addr,
	})
	if err != nil {
		s.logger.Error("Could not create billing customer for agency", zap.Error(err))
		return nil, err
	}

	ag, err := agency.NewAgency(in.ID, customerID, profile, in.WhiteLabel)
	if err != nil {
		return nil, err
	}
	if err := s.agencies.Save(ctx, ag); err != nil {
		return nil, err
	}
	if _, err := s.owners.InitUser(ctx, actorID, identityapp.InitUserInput{
		Role:     identity.RoleAgencyOwner,
		AgencyID: &ag.ID,
	}); err != nil {
		// the agency is removed again so the caller can retry the create
		if derr := s.agencies.Delete(ctx, ag.ID); derr != nil {
			s.logger.Error("Could not remove agency without owner",
				zap.String("agency_id", ag.ID.String()),
				zap.Error(derr))
		}
		return nil, fmt.Errorf("assign agency owner: %w", err)
	}
	s.publish(ctx, ag)

	s.logger.Info("Agency created",
		zap.String("agency_id", ag.ID.String()),
		zap.String("owner_id", actorID.String()))
	return ag, nil
}

func (s *Service) updateAgency(ctx context.Context, actorID uuid.UUID, ag *agency.Agency, profile agency.Profile, whiteLabel bool) (*agency.Agency, error) {
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, ag.ID); err != nil {
		return nil, err
	}
	ag.UpdateProfile(profile, whiteLabel)
	if err := s.agencies.Save(ctx, ag); err != nil {
		return nil, err
	}
	return ag, nil
}

// GetAgency returns an agency to one of its members
func (s *Service) GetAgency(ctx context.Context, actorID, agencyID uuid.UUID) (*agency.Agency, error) {
	if _, err := s.guard.RequireAgencyMember(ctx, actorID, agencyID); err != nil {
		return nil, err
	}
	return s.agencies.FindByID(ctx, agencyID)
}

// UpdateAgencyGoal sets the sub-account goal
func (s *Service) UpdateAgencyGoal(ctx context.Context, actorID, agencyID uuid.UUID, goal int) (*agency.Agency, error) {
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, agencyID); err != nil {
		return nil, err
	}
	ag, err := s.agencies.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if err := ag.SetGoal(goal); err != nil {
		return nil, err
	}
	if err := s.agencies.Save(ctx, ag); err != nil {
		return nil, err
	}
	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &actorID,
		AgencyID:    &agencyID,
		Description: fmt.Sprintf("Updated the agency goal to | %d Sub Account", goal),
	})
	return ag, nil
}

// DeleteAgency removes the agency and all its sub-accounts. Only the owner
// may do this and confirm must be set.
func (s *Service) DeleteAgency(ctx context.Context, actorID, agencyID uuid.UUID, confirm bool) error {
	actor, err := s.guard.RequireAgencyMember(ctx, actorID, agencyID)
	if err != nil {
		return err
	}
	if actor.Role != identity.RoleAgencyOwner {
		return ErrOwnerOnly
	}
	if !confirm {
		return shared.ErrConfirmRequired
	}
	if err := s.agencies.Delete(ctx, agencyID); err != nil {
		return err
	}
	s.logger.Info("Agency deleted",
		zap.String("agency_id", agencyID.String()),
		zap.String("user_id", actorID.String()))
	return nil
}

// UpsertSubAccount creates a sub-account or updates an existing one. A new
// sub-account grants the agency owner access.
func (s *Service) UpsertSubAccount(ctx context.Context, actorID uuid.UUID, in UpsertSubAccountInput) (*agency.SubAccount, error) {
	profile, err := in.Profile.Build("Sub account")
	if err != nil {
		return nil, err
	}

	var sub *agency.SubAccount
	if in.ID != uuid.Nil {
		if sub, err = s.subAccounts.FindByID(ctx, in.ID); err != nil {
			return nil, err
		}
		if _, err := s.guard.RequireAgencyMember(ctx, actorID, sub.AgencyID); err != nil {
			return nil, err
		}
		sub.UpdateProfile(profile)
		if err := s.subAccounts.Save(ctx, sub); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, in.AgencyID); err != nil {
			return nil, err
		}
		if sub, err = s.createSubAccount(ctx, in.AgencyID, profile); err != nil {
			return nil, err
		}
	}

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:      &actorID,
		AgencyID:     &sub.AgencyID,
		SubAccountID: &sub.ID,
		Description:  "Updated sub account | " + sub.Name,
	})
	return sub, nil
}

func (s *Service) createSubAccount(ctx context.Context, agencyID uuid.UUID, profile agency.Profile) (*agency.SubAccount, error) {
	owner, err := s.users.FindAgencyOwner(ctx, agencyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_STATE", "The agency has no owner")
		}
		return nil, err
	}

	sub, err := agency.NewSubAccount(agencyID, profile)
	if err != nil {
		return nil, err
	}
	if err := s.subAccounts.Save(ctx, sub); err != nil {
		return nil, err
	}
	perm, err := identity.NewPermission(owner.Email, sub.ID, true)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.Upsert(ctx, perm); err != nil {
		return nil, err
	}
	s.publish(ctx, sub)
	return sub, nil
}

// GetSubAccount returns a sub-account. Callers are expected to have passed
// the sub-account gate.
func (s *Service) GetSubAccount(ctx context.Context, subAccountID uuid.UUID) (*agency.SubAccount, error) {
	return s.subAccounts.FindByID(ctx, subAccountID)
}

// DeleteSubAccount removes a sub-account with its permissions
func (s *Service) DeleteSubAccount(ctx context.Context, actorID, subAccountID uuid.UUID, confirm bool) error {
	sub, err := s.subAccounts.FindByID(ctx, subAccountID)
	if err != nil {
		return err
	}
	if _, err := s.guard.RequireAgencyAdmin(ctx, actorID, sub.AgencyID); err != nil {
		return err
	}
	if !confirm {
		return shared.ErrConfirmRequired
	}

	logActivity(ctx, s.activity, s.logger, notification.ActivityInput{
		ActorID:     &actorID,
		AgencyID:    &sub.AgencyID,
		Description: "Deleted a subaccount | " + sub.Name,
	})
	if err := s.permissions.DeleteBySubAccount(ctx, sub.ID); err != nil {
		return err
	}
	return s.subAccounts.Delete(ctx, sub.ID)
}

// ListSubAccounts lists the agency's sub-accounts visible to the actor.
// Agency-wide roles see all; other members those they hold access to.
func (s *Service) ListSubAccounts(ctx context.Context, actorID, agencyID uuid.UUID) ([]*agency.SubAccount, error) {
	actor, err := s.guard.RequireAgencyMember(ctx, actorID, agencyID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subAccounts.FindByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if actor.Role.IsAgencyWide() {
		return subs, nil
	}
	visible := make([]*agency.SubAccount, 0, len(subs))
	for _, sub := range subs {
		if actor.HasSubAccountAccess(sub.ID) {
			visible = append(visible, sub)
		}
	}
	return visible, nil
}

func (s *Service) publish(ctx context.Context, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Error(err))
	}
}

func logActivity(ctx context.Context, activity identityapp.ActivityLogger, logger *zap.Logger, in notification.ActivityInput) {
	if activity == nil {
		return
	}
	if _, err := activity.SaveActivityLog(ctx, in); err != nil {
		logger.Warn("Failed to save activity log",
			zap.String("description", in.Description),
			zap.Error(err))
	}
}
