package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/application/access"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gateFixture struct {
	store       *testutil.Store
	activity    *notification.Service
	invitations *identityapp.InvitationService
	gate        *access.SubAccountGate
	agency      *agency.Agency
	owner       *identity.User
	north       *agency.SubAccount
	south       *agency.SubAccount
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	store := testutil.NewStore(t)
	activity := notification.NewService(store.Notifications, store.Users, store.SubAccounts, zap.NewNop())
	invitations := identityapp.NewInvitationService(store.Invitations, store.Users, activity, nil, 0, zap.NewNop())

	f := &gateFixture{
		store:       store,
		activity:    activity,
		invitations: invitations,
		gate:        access.NewSubAccountGate(invitations, store.Users, store.SubAccounts, activity, zap.NewNop()),
	}
	f.agency, f.owner = store.CreateAgency(t, "Acme")
	f.north = store.CreateSubAccount(t, f.agency.ID, "North")
	f.south = store.CreateSubAccount(t, f.agency.ID, "South")
	store.Grant(t, f.owner.Email, f.north.ID, true)
	store.Grant(t, f.owner.Email, f.south.ID, true)

	ctx := context.Background()
	for _, entry := range []struct {
		sub  *uuid.UUID
		desc string
	}{
		{nil, "Updated the agency goal to | 7 Sub Account"},
		{&f.north.ID, "Updated sub account | North"},
		{&f.south.ID, "Updated sub account | South"},
	} {
		_, err := activity.SaveActivityLog(ctx, notification.ActivityInput{
			ActorID:      &f.owner.ID,
			AgencyID:     &f.agency.ID,
			SubAccountID: entry.sub,
			Description:  entry.desc,
		})
		require.NoError(t, err)
	}
	return f
}

func TestSubAccountGate_OwnerSeesEverything(t *testing.T) {
	f := newGateFixture(t)

	d, err := f.gate.Authorize(context.Background(), f.owner.ID, f.north.ID)
	require.NoError(t, err)
	assert.Equal(t, access.Allowed, d.Outcome)
	assert.Equal(t, f.agency.ID, d.AgencyID)
	assert.Equal(t, f.north.ID, d.SubAccount.ID)
	assert.Len(t, d.Notifications, 3)
}

func TestSubAccountGate_MemberSeesOwnSubAccount(t *testing.T) {
	f := newGateFixture(t)
	member := f.store.CreateUser(t, "Member", "member@example.com", identity.RoleSubAccountUser, &f.agency.ID)
	f.store.Grant(t, member.Email, f.north.ID, true)

	d, err := f.gate.Authorize(context.Background(), member.ID, f.north.ID)
	require.NoError(t, err)
	require.Equal(t, access.Allowed, d.Outcome)
	require.Len(t, d.Notifications, 1)
	assert.Equal(t, "Acme Owner | Updated sub account | North", d.Notifications[0].Message)
}

func TestSubAccountGate_Denials(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)

	t.Run("sub-account user without a permission", func(t *testing.T) {
		member := f.store.CreateUser(t, "NoPerm", "noperm@example.com", identity.RoleSubAccountUser, &f.agency.ID)
		d, err := f.gate.Authorize(ctx, member.ID, f.north.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Unauthorized, d.Outcome)
		assert.Nil(t, d.Notifications)
	})

	t.Run("permission without access", func(t *testing.T) {
		member := f.store.CreateUser(t, "Revoked", "revoked@example.com", identity.RoleSubAccountGuest, &f.agency.ID)
		f.store.Grant(t, member.Email, f.north.ID, false)
		d, err := f.gate.Authorize(ctx, member.ID, f.north.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Unauthorized, d.Outcome)
	})

	t.Run("user without agency", func(t *testing.T) {
		loner := f.store.CreateUser(t, "Loner", "loner@example.com", identity.RoleSubAccountUser, nil)
		d, err := f.gate.Authorize(ctx, loner.ID, f.north.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Unauthorized, d.Outcome)
	})

	t.Run("user without role", func(t *testing.T) {
		roleless := f.store.CreateUser(t, "Roleless", "roleless@example.com", "", &f.agency.ID)
		f.store.Grant(t, roleless.Email, f.north.ID, true)
		d, err := f.gate.Authorize(ctx, roleless.ID, f.north.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Unauthorized, d.Outcome)
	})

	t.Run("unknown user is redirected", func(t *testing.T) {
		d, err := f.gate.Authorize(ctx, uuid.New(), f.north.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Redirect, d.Outcome)
	})

	t.Run("sub-account of another agency", func(t *testing.T) {
		other, _ := f.store.CreateAgency(t, "Other")
		foreign := f.store.CreateSubAccount(t, other.ID, "Foreign")
		f.store.Grant(t, f.owner.Email, foreign.ID, true)
		d, err := f.gate.Authorize(ctx, f.owner.ID, foreign.ID)
		require.NoError(t, err)
		assert.Equal(t, access.Unauthorized, d.Outcome)
	})
}

func TestSubAccountGate_AcceptsInvitationOnEntry(t *testing.T) {
	ctx := context.Background()
	f := newGateFixture(t)
	_, err := f.invitations.SendInvitation(ctx, f.owner.ID, identityapp.SendInvitationInput{
		AgencyID: f.agency.ID, Email: "invitee@example.com", Role: identity.RoleSubAccountUser,
	})
	require.NoError(t, err)
	invitee := f.store.CreateUser(t, "Invitee", "invitee@example.com", "", nil)
	f.store.Grant(t, invitee.Email, f.south.ID, true)

	d, err := f.gate.Authorize(ctx, invitee.ID, f.south.ID)
	require.NoError(t, err)
	require.Equal(t, access.Allowed, d.Outcome)
	assert.Equal(t, identity.RoleSubAccountUser, d.User.Role)
	assert.Len(t, d.Notifications, 1, "only the South entry is visible")
}

type failingVerifier struct{ err error }

func (v failingVerifier) VerifyAndAcceptInvitation(context.Context, uuid.UUID) (*uuid.UUID, error) {
	return nil, v.err
}

func TestSubAccountGate_VerifierFailure(t *testing.T) {
	store := testutil.NewStore(t)
	boom := errors.New("database unavailable")
	gate := access.NewSubAccountGate(failingVerifier{err: boom}, store.Users, store.SubAccounts, nil, zap.NewNop())

	_, err := gate.Authorize(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, boom)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "allowed", access.Allowed.String())
	assert.Equal(t, "unauthorized", access.Unauthorized.String())
	assert.Equal(t, "redirect", access.Redirect.String())
}
