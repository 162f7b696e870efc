package identity

import (
	"context"
	"fmt"

	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/email"
	"go.uber.org/zap"
)

// InvitationMailer emails the invitee when an invitation is created
type InvitationMailer struct {
	agencies  agency.AgencyRepository
	sender    email.Sender
	acceptURL string
	logger    *zap.Logger
}

// NewInvitationMailer creates an InvitationMailer. acceptURL is where the
// invitee signs in to accept.
func NewInvitationMailer(agencies agency.AgencyRepository, sender email.Sender, acceptURL string, logger *zap.Logger) *InvitationMailer {
	return &InvitationMailer{agencies: agencies, sender: sender, acceptURL: acceptURL, logger: logger}
}

// EventTypes implements shared.EventHandler
func (m *InvitationMailer) EventTypes() []string {
	return []string{identity.EventTypeInvitationCreated}
}

// Handle implements shared.EventHandler
func (m *InvitationMailer) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*identity.InvitationCreatedEvent)
	if !ok {
		return nil
	}
	ag, err := m.agencies.FindByID(ctx, created.AgencyID())
	if err != nil {
		return fmt.Errorf("load agency for invitation %s: %w", created.AggregateID(), err)
	}

	msg, err := email.InvitationMessage(created.Email, email.Invitation{
		AgencyName: ag.Name,
		Role:       created.Role.String(),
		AcceptURL:  m.acceptURL,
	})
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send invitation %s: %w", created.AggregateID(), err)
	}
	m.logger.Info("Invitation email sent",
		zap.String("invitation_id", created.AggregateID().String()),
		zap.String("agency_id", ag.ID.String()))
	return nil
}

var _ shared.EventHandler = (*InvitationMailer)(nil)
