package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/billing"
	"go.uber.org/zap"
)

// Account types are the app paths the payment provider redirects back to
const (
	AccountTypeAgency     = "agency"
	AccountTypeSubAccount = "subaccount"
)

// launchpadPath is the state prefix for links started from a launchpad
const launchpadPath = "launchpad"

// Launchpad is the onboarding checklist of an agency or sub-account
type Launchpad struct {
	EntityID         uuid.UUID `json:"id"`
	AccountType      string    `json:"accountType"`
	DetailsComplete  bool      `json:"detailsComplete"`
	Connected        bool      `json:"connectedStripeAccount"`
	ConnectAccountID string    `json:"connectAccountId,omitempty"`
	StripeOAuthLink  string    `json:"stripeOAuthLink"`
}

// Completed reports whether every checklist item is done
func (l *Launchpad) Completed() bool {
	return l.DetailsComplete && l.Connected
}

// ConnectResult is the outcome of the provider's OAuth redirect
type ConnectResult struct {
	Launchpad *Launchpad `json:"launchpad"`
	// ReturnPath is the page the flow started from
	ReturnPath string `json:"returnPath"`
}

// LaunchpadConfig holds the OAuth link settings
type LaunchpadConfig struct {
	ClientID string
	// BaseURL is the public app URL with a trailing slash
	BaseURL string
}

// LaunchpadService builds launchpads and completes the payment account
// connection
type LaunchpadService struct {
	agencies    agency.AgencyRepository
	subAccounts agency.SubAccountRepository
	guard       *access.Guard
	provider    PaymentProvider
	config      LaunchpadConfig
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewLaunchpadService creates a LaunchpadService
func NewLaunchpadService(
	agencies agency.AgencyRepository,
	subAccounts agency.SubAccountRepository,
	users identity.UserRepository,
	provider PaymentProvider,
	config LaunchpadConfig,
	events shared.EventPublisher,
	logger *zap.Logger,
) *LaunchpadService {
	return &LaunchpadService{
		agencies:    agencies,
		subAccounts: subAccounts,
		guard:       access.NewGuard(users),
		provider:    provider,
		config:      config,
		events:      events,
		logger:      logger,
	}
}

// AgencyLaunchpad returns the agency's checklist. A non-empty code is
// exchanged for a connected account when none is connected yet; exchange
// and persistence failures are logged and leave the step incomplete.
func (s *LaunchpadService) AgencyLaunchpad(ctx context.Context, agencyID uuid.UUID, code string) (*Launchpad, error) {
	ag, err := s.agencies.FindByID(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if code != "" && !ag.IsConnected() {
		s.connect(ctx, AccountTypeAgency, ag.ID, code, func(accountID string) error {
			if err := ag.ConnectAccount(accountID); err != nil {
				return err
			}
			if err := s.agencies.Save(ctx, ag); err != nil {
				ag.ConnectAccountID = ""
				ag.ClearDomainEvents()
				return err
			}
			s.publish(ctx, ag)
			return nil
		})
	}

	return &Launchpad{
		EntityID:         ag.ID,
		AccountType:      AccountTypeAgency,
		DetailsComplete:  ag.DetailsComplete(),
		Connected:        ag.IsConnected(),
		ConnectAccountID: ag.ConnectAccountID,
		StripeOAuthLink:  s.oauthLink(AccountTypeAgency, ag.ID),
	}, nil
}

// SubAccountLaunchpad is AgencyLaunchpad for a sub-account
func (s *LaunchpadService) SubAccountLaunchpad(ctx context.Context, subAccountID uuid.UUID, code string) (*Launchpad, error) {
	sub, err := s.subAccounts.FindByID(ctx, subAccountID)
	if err != nil {
		return nil, err
	}

	if code != "" && !sub.IsConnected() {
		s.connect(ctx, AccountTypeSubAccount, sub.ID, code, func(accountID string) error {
			if err := sub.ConnectAccount(accountID); err != nil {
				return err
			}
			if err := s.subAccounts.Save(ctx, sub); err != nil {
				sub.ConnectAccountID = ""
				sub.ClearDomainEvents()
				return err
			}
			s.publish(ctx, sub)
			return nil
		})
	}

	return &Launchpad{
		EntityID:         sub.ID,
		AccountType:      AccountTypeSubAccount,
		DetailsComplete:  sub.DetailsComplete(),
		Connected:        sub.IsConnected(),
		ConnectAccountID: sub.ConnectAccountID,
		StripeOAuthLink:  s.oauthLink(AccountTypeSubAccount, sub.ID),
	}, nil
}

// ErrCannotConnect is returned when the actor may view a sub-account but
// not connect its payment account
var ErrCannotConnect = shared.NewDomainError("FORBIDDEN", "You cannot connect a payment account for this sub account")

// AuthorizeConnect checks that actorID may complete a payment account
// connection for the entity. Agencies need an owner or admin; sub-accounts
// also accept a sub-account user holding access to them.
func (s *LaunchpadService) AuthorizeConnect(ctx context.Context, actorID uuid.UUID, accountType string, entityID uuid.UUID) error {
	switch accountType {
	case AccountTypeAgency:
		_, err := s.guard.RequireAgencyAdmin(ctx, actorID, entityID)
		return err
	case AccountTypeSubAccount:
		sub, err := s.subAccounts.FindByID(ctx, entityID)
		if err != nil {
			return err
		}
		u, err := s.guard.RequireAgencyMember(ctx, actorID, sub.AgencyID)
		if err != nil {
			return err
		}
		if u.Role.IsAgencyWide() {
			return nil
		}
		if u.Role == identity.RoleSubAccountUser && u.HasSubAccountAccess(sub.ID) {
			return nil
		}
		return ErrCannotConnect
	default:
		return shared.NewDomainError("INVALID_INPUT", "account type must be agency or subaccount")
	}
}

// ConnectCallback handles the provider's OAuth redirect by forwarding to
// the launchpad named in state. The signed-in actor must be allowed to
// connect that entity.
func (s *LaunchpadService) ConnectCallback(ctx context.Context, actorID uuid.UUID, accountType, code, state string) (*ConnectResult, error) {
	path, entityID, err := billing.ParseOAuthState(state)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if err := s.AuthorizeConnect(ctx, actorID, accountType, entityID); err != nil {
		return nil, err
	}

	var lp *Launchpad
	if accountType == AccountTypeAgency {
		lp, err = s.AgencyLaunchpad(ctx, entityID, code)
	} else {
		lp, err = s.SubAccountLaunchpad(ctx, entityID, code)
	}
	if err != nil {
		return nil, err
	}
	return &ConnectResult{Launchpad: lp, ReturnPath: path}, nil
}

// oauthLink returns the connect link for an entity
func (s *LaunchpadService) oauthLink(accountType string, entityID uuid.UUID) string {
	return billing.OAuthLink(s.config.ClientID, s.config.BaseURL, accountType,
		billing.OAuthState(launchpadPath, entityID))
}

func (s *LaunchpadService) connect(ctx context.Context, accountType string, entityID uuid.UUID, code string, persist func(accountID string) error) {
	accountID, err := s.provider.ExchangeOAuthCode(ctx, code)
	if err != nil {
		s.logger.Warn("Could not connect payment account",
			zap.String("account_type", accountType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return
	}
	if err := persist(accountID); err != nil {
		s.logger.Warn("Could not save connected payment account",
			zap.String("account_type", accountType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		return
	}
	s.logger.Info("Payment account connected",
		zap.String("account_type", accountType),
		zap.String("entity_id", entityID.String()))
}

func (s *LaunchpadService) publish(ctx context.Context, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
}
