package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/email"
	"github.com/lumio/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invitationFixture struct {
	store  *testutil.Store
	events *testutil.RecordingPublisher
	svc    *InvitationService
}

func newInvitationFixture(t *testing.T, ttl time.Duration) *invitationFixture {
	t.Helper()
	store := testutil.NewStore(t)
	events := &testutil.RecordingPublisher{}
	activity := notification.NewService(store.Notifications, store.Users, store.SubAccounts, zap.NewNop())
	return &invitationFixture{
		store:  store,
		events: events,
		svc:    NewInvitationService(store.Invitations, store.Users, activity, events, ttl, zap.NewNop()),
	}
}

func TestInvitationService_SendInvitation(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t, 0)
	ag, owner := f.store.CreateAgency(t, "Acme")

	inv, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
		AgencyID: ag.ID, Email: "Invitee@Example.com", Role: identity.RoleSubAccountUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", inv.Email)
	assert.Equal(t, identity.InvitationStatusPending, inv.Status)
	assert.Equal(t, []string{identity.EventTypeInvitationCreated}, f.events.Types())

	logs, err := f.store.Notifications.FindByAgencyWithAuthor(ctx, ag.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Acme Owner | Invited invitee@example.com", logs[0].Message)

	t.Run("second pending invitation is rejected", func(t *testing.T) {
		_, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: "invitee@example.com", Role: identity.RoleAgencyAdmin,
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("owner role cannot be invited", func(t *testing.T) {
		_, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: "boss@example.com", Role: identity.RoleAgencyOwner,
		})
		require.Error(t, err)
	})

	t.Run("members cannot invite", func(t *testing.T) {
		member := f.store.CreateUser(t, "Member", "member@example.com", identity.RoleSubAccountUser, &ag.ID)
		_, err := f.svc.SendInvitation(ctx, member.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: "friend@example.com", Role: identity.RoleSubAccountUser,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestInvitationService_RevokeAndList(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t, 0)
	ag, owner := f.store.CreateAgency(t, "Acme")

	inv, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
		AgencyID: ag.ID, Email: "invitee@example.com", Role: identity.RoleSubAccountGuest,
	})
	require.NoError(t, err)

	revoked, err := f.svc.RevokeInvitation(ctx, owner.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.InvitationStatusRevoked, revoked.Status)

	_, err = f.svc.RevokeInvitation(ctx, owner.ID, inv.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	list, err := f.svc.ListInvitations(ctx, owner.ID, ag.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, identity.InvitationStatusRevoked, list[0].Status)
}

func TestInvitationService_VerifyAndAcceptInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a pending invitation", func(t *testing.T) {
		f := newInvitationFixture(t, 0)
		ag, owner := f.store.CreateAgency(t, "Acme")
		_, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: "invitee@example.com", Role: identity.RoleAgencyAdmin,
		})
		require.NoError(t, err)
		invitee := f.store.CreateUser(t, "Invitee", "invitee@example.com", "", nil)
		f.events.Reset()

		agencyID, err := f.svc.VerifyAndAcceptInvitation(ctx, invitee.ID)
		require.NoError(t, err)
		require.NotNil(t, agencyID)
		assert.Equal(t, ag.ID, *agencyID)

		stored, err := f.store.Users.FindByID(ctx, invitee.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAgencyAdmin, stored.Role)
		assert.True(t, stored.BelongsTo(ag.ID))

		_, err = f.store.Invitations.FindPendingByEmail(ctx, "invitee@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, []string{identity.EventTypeUserRoleChanged, identity.EventTypeInvitationAccepted}, f.events.Types())

		logs, err := f.store.Notifications.FindByAgencyWithAuthor(ctx, ag.ID)
		require.NoError(t, err)
		messages := make([]string, len(logs))
		for i, n := range logs {
			messages[i] = n.Message
		}
		assert.Contains(t, messages, "Invitee | Joined")
	})

	t.Run("without invitation returns the current agency", func(t *testing.T) {
		f := newInvitationFixture(t, 0)
		ag, owner := f.store.CreateAgency(t, "Acme")

		agencyID, err := f.svc.VerifyAndAcceptInvitation(ctx, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, agencyID)
		assert.Equal(t, ag.ID, *agencyID)

		loner := f.store.CreateUser(t, "Loner", "loner@example.com", "", nil)
		agencyID, err = f.svc.VerifyAndAcceptInvitation(ctx, loner.ID)
		require.NoError(t, err)
		assert.Nil(t, agencyID)
	})

	t.Run("owners keep their agency", func(t *testing.T) {
		f := newInvitationFixture(t, 0)
		acme, acmeOwner := f.store.CreateAgency(t, "Acme")
		other, _ := f.store.CreateAgency(t, "Other")
		_, err := f.svc.SendInvitation(ctx, acmeOwner.ID, SendInvitationInput{
			AgencyID: acme.ID, Email: "owner@other.test", Role: identity.RoleAgencyAdmin,
		})
		require.NoError(t, err)

		otherOwner, err := f.store.Users.FindByEmail(ctx, "owner@other.test")
		require.NoError(t, err)
		agencyID, err := f.svc.VerifyAndAcceptInvitation(ctx, otherOwner.ID)
		require.NoError(t, err)
		require.NotNil(t, agencyID)
		assert.Equal(t, other.ID, *agencyID)

		pending, err := f.store.Invitations.FindPendingByEmail(ctx, "owner@other.test")
		require.NoError(t, err)
		assert.True(t, pending.IsPending())
	})

	t.Run("expired invitation is not accepted", func(t *testing.T) {
		f := newInvitationFixture(t, time.Hour)
		ag, owner := f.store.CreateAgency(t, "Acme")
		_, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: "late@example.com", Role: identity.RoleSubAccountUser,
		})
		require.NoError(t, err)
		late := f.store.CreateUser(t, "Late", "late@example.com", "", nil)
		f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		agencyID, err := f.svc.VerifyAndAcceptInvitation(ctx, late.ID)
		require.NoError(t, err)
		assert.Nil(t, agencyID)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newInvitationFixture(t, 0)
		_, err := f.svc.VerifyAndAcceptInvitation(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNoUser)
	})
}

func TestInvitationService_ExpireStale(t *testing.T) {
	ctx := context.Background()
	f := newInvitationFixture(t, 24*time.Hour)
	ag, owner := f.store.CreateAgency(t, "Acme")
	for _, addr := range []string{"a@example.com", "b@example.com"} {
		_, err := f.svc.SendInvitation(ctx, owner.ID, SendInvitationInput{
			AgencyID: ag.ID, Email: addr, Role: identity.RoleSubAccountUser,
		})
		require.NoError(t, err)
	}

	n, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "fresh invitations stay pending")

	f.svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err = f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := f.store.Invitations.FindByAgency(ctx, ag.ID)
	require.NoError(t, err)
	for _, inv := range list {
		assert.Equal(t, identity.InvitationStatusRevoked, inv.Status)
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestInvitationMailer_Handle(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	ag, _ := store.CreateAgency(t, "Acme")
	inv, err := identity.NewInvitation(ag.ID, "invitee@example.com", identity.RoleAgencyAdmin)
	require.NoError(t, err)
	created := inv.GetDomainEvents()[0]

	sender := &recordingSender{}
	mailer := NewInvitationMailer(store.Agencies, sender, "https://app.lumio.test/agency", zap.NewNop())
	assert.Equal(t, []string{identity.EventTypeInvitationCreated}, mailer.EventTypes())

	require.NoError(t, mailer.Handle(ctx, created))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "invitee@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Acme")
	assert.Contains(t, msg.Text, "https://app.lumio.test/agency")
	assert.Contains(t, msg.HTML, string(identity.RoleAgencyAdmin))

	t.Run("ignores other events", func(t *testing.T) {
		u, err := identity.NewUser("Someone", "someone@example.com", "")
		require.NoError(t, err)
		assert.NoError(t, mailer.Handle(ctx, u.GetDomainEvents()[0]))
	})

	t.Run("send failure is returned", func(t *testing.T) {
		failing := NewInvitationMailer(store.Agencies, &recordingSender{err: errors.New("ses down")}, "", zap.NewNop())
		assert.ErrorContains(t, failing.Handle(ctx, created), "ses down")
	})
}
