package agency

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/lumio/backend/internal/application/billing"
	identityapp "github.com/lumio/backend/internal/application/identity"
	"github.com/lumio/backend/internal/application/notification"
	"github.com/lumio/backend/internal/domain/agency"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/storage"
	"github.com/lumio/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCustomers struct {
	calls []billingapp.CreateCustomerInput
	err   error
}

func (f *fakeCustomers) CreateCustomer(_ context.Context, in billingapp.CreateCustomerInput) (string, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return "", f.err
	}
	return "cus_new", nil
}

// failingOwners fails the next InitUser call when err is set
type failingOwners struct {
	next UserInitializer
	err  error
}

func (f *failingOwners) InitUser(ctx context.Context, userID uuid.UUID, in identityapp.InitUserInput) (*identity.User, error) {
	if f.err != nil {
		err := f.err
		f.err = nil
		return nil, err
	}
	return f.next.InitUser(ctx, userID, in)
}

type fixture struct {
	store     *testutil.Store
	customers *fakeCustomers
	owners    *failingOwners
	events    *testutil.RecordingPublisher
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	activity := notification.NewService(store.Notifications, store.Users, store.SubAccounts, zap.NewNop())
	users := identityapp.NewUserService(identityapp.UserServiceDeps{
		Users:       store.Users,
		Permissions: store.Permissions,
		Agencies:    store.Agencies,
		SubAccounts: store.SubAccounts,
		Activity:    activity,
	}, zap.NewNop())

	f := &fixture{
		store:     store,
		customers: &fakeCustomers{},
		owners:    &failingOwners{next: users},
		events:    &testutil.RecordingPublisher{},
	}
	f.svc = NewService(Deps{
		Agencies:    store.Agencies,
		SubAccounts: store.SubAccounts,
		Users:       store.Users,
		Permissions: store.Permissions,
		Customers:   f.customers,
		Owners:      f.owners,
		Activity:    activity,
		Events:      f.events,
	}, zap.NewNop())
	return f
}

func (f *fixture) messages(t *testing.T, agencyID uuid.UUID) []string {
	t.Helper()
	list, err := f.store.Notifications.FindByAgencyWithAuthor(context.Background(), agencyID)
	require.NoError(t, err)
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Message
	}
	return out
}

func TestUpsertAgency_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.store.CreateUser(t, "Jane", "jane@example.com", "", nil)
	clientID := uuid.New()

	ag, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{
		ID:      clientID,
		Profile: testutil.ProfileInput("Acme"),
	})
	require.NoError(t, err)
	assert.Equal(t, clientID, ag.ID)
	assert.Equal(t, "cus_new", ag.CustomerID)
	assert.Equal(t, agency.DefaultGoal, ag.Goal)
	assert.Empty(t, ag.ConnectAccountID)
	assert.Equal(t, []string{agency.EventTypeAgencyCreated}, f.events.Types())

	require.Len(t, f.customers.calls, 1)
	call := f.customers.calls[0]
	assert.Equal(t, "hello@example.com", call.Email)
	assert.Equal(t, "IL", call.Address.State, "state is the state, not the zip code")
	assert.Equal(t, "12345", call.Address.PostalCode)
	assert.Equal(t, "Acme", call.Shipping.Name)

	owner, err := f.store.Users.FindByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAgencyOwner, owner.Role)
	assert.True(t, owner.BelongsTo(ag.ID))

	t.Run("a member cannot create a second agency", func(t *testing.T) {
		_, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{Profile: testutil.ProfileInput("Second")})
		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestUpsertAgency_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	creator := f.store.CreateUser(t, "Jane", "jane@example.com", "", nil)

	in := testutil.ProfileInput("Acme")
	in.City = ""
	_, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{Profile: in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city is required")

	in = testutil.ProfileInput("A")
	_, err = f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{Profile: in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Agency name must be atleast 2 chars.")
	assert.Empty(t, f.customers.calls)
}

func TestUpsertAgency_CustomerFailureStops(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.customers.err = shared.ErrPaymentProvider
	creator := f.store.CreateUser(t, "Jane", "jane@example.com", "", nil)
	id := uuid.New()

	_, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{ID: id, Profile: testutil.ProfileInput("Acme")})
	assert.ErrorIs(t, err, shared.ErrPaymentProvider)

	_, err = f.store.Agencies.FindByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	stored, err := f.store.Users.FindByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AgencyID)
}

func TestUpsertAgency_OwnerFailureRemovesAgency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.owners.err = errors.New("connection reset")
	creator := f.store.CreateUser(t, "Jane", "jane@example.com", "", nil)
	id := uuid.New()

	_, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{ID: id, Profile: testutil.ProfileInput("Acme")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assign agency owner")

	_, err = f.store.Agencies.FindByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, f.events.Types())

	ag, err := f.svc.UpsertAgency(ctx, creator.ID, UpsertAgencyInput{ID: id, Profile: testutil.ProfileInput("Acme")})
	require.NoError(t, err)
	assert.Equal(t, id, ag.ID)
	owner, err := f.store.Users.FindByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAgencyOwner, owner.Role)
	assert.True(t, owner.BelongsTo(id))
}

func TestUpsertAgency_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ag, owner := f.store.CreateAgency(t, "Acme")
	require.NoError(t, ag.SetGoal(9))
	require.NoError(t, f.store.Agencies.Save(ctx, ag))

	in := testutil.ProfileInput("Acme Renamed")
	updated, err := f.svc.UpsertAgency(ctx, owner.ID, UpsertAgencyInput{ID: ag.ID, Profile: in, WhiteLabel: true})
	require.NoError(t, err)
	assert.Equal(t, "Acme Renamed", updated.Name)
	assert.True(t, updated.WhiteLabel)
	assert.Equal(t, 9, updated.Goal)
	assert.Equal(t, ag.CustomerID, updated.CustomerID)
	assert.Empty(t, f.customers.calls)

	t.Run("members cannot edit", func(t *testing.T) {
		member := f.store.CreateUser(t, "Member", "member@example.com", identity.RoleSubAccountUser, &ag.ID)
		_, err := f.svc.UpsertAgency(ctx, member.ID, UpsertAgencyInput{ID: ag.ID, Profile: in})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestUpdateAgencyGoal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ag, owner := f.store.CreateAgency(t, "Acme")

	updated, err := f.svc.UpdateAgencyGoal(ctx, owner.ID, ag.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Goal)
	assert.Equal(t, []string{"Acme Owner | Updated the agency goal to | 12 Sub Account"}, f.messages(t, ag.ID))

	_, err = f.svc.UpdateAgencyGoal(ctx, owner.ID, ag.ID, 0)
	require.Error(t, err)
}

func TestDeleteAgency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ag, owner := f.store.CreateAgency(t, "Acme")
	sub := f.store.CreateSubAccount(t, ag.ID, "North")
	admin := f.store.CreateUser(t, "Admin", "admin@example.com", identity.RoleAgencyAdmin, &ag.ID)

	assert.ErrorIs(t, f.svc.DeleteAgency(ctx, admin.ID, ag.ID, true), ErrOwnerOnly)
	assert.ErrorIs(t, f.svc.DeleteAgency(ctx, owner.ID, ag.ID, false), shared.ErrConfirmRequired)

	require.NoError(t, f.svc.DeleteAgency(ctx, owner.ID, ag.ID, true))
	_, err := f.store.Agencies.FindByID(ctx, ag.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.store.SubAccounts.FindByID(ctx, sub.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpsertSubAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ag, owner := f.store.CreateAgency(t, "Acme")

	sub, err := f.svc.UpsertSubAccount(ctx, owner.ID, UpsertSubAccountInput{
		AgencyID: ag.ID,
		Profile:  testutil.ProfileInput("North"),
	})
	require.NoError(t, err)
	assert.Equal(t, ag.ID, sub.AgencyID)
	assert.Contains(t, f.events.Types(), agency.EventTypeSubAccountCreated)

	perm, err := f.store.Permissions.FindByEmailAndSubAccount(ctx, owner.Email, sub.ID)
	require.NoError(t, err)
	assert.True(t, perm.Access, "owner gets access to new sub-accounts")

	updated, err := f.svc.UpsertSubAccount(ctx, owner.ID, UpsertSubAccountInput{
		ID:      sub.ID,
		Profile: testutil.ProfileInput("North West"),
	})
	require.NoError(t, err)
	assert.Equal(t, "North West", updated.Name)

	assert.ElementsMatch(t, []string{
		"Acme Owner | Updated sub account | North",
		"Acme Owner | Updated sub account | North West",
	}, f.messages(t, ag.ID))

	t.Run("invalid profile", func(t *testing.T) {
		in := testutil.ProfileInput("N")
		_, err := f.svc.UpsertSubAccount(ctx, owner.ID, UpsertSubAccountInput{AgencyID: ag.ID, Profile: in})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sub account name must be atleast 2 chars.")
	})

	t.Run("members cannot create", func(t *testing.T) {
		member := f.store.CreateUser(t, "Member", "member@example.com", identity.RoleSubAccountUser, &ag.ID)
		_, err := f.svc.UpsertSubAccount(ctx, member.ID, UpsertSubAccountInput{AgencyID: ag.ID, Profile: testutil.ProfileInput("South")})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestDeleteAndListSubAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ag, owner := f.store.CreateAgency(t, "Acme")
	north := f.store.CreateSubAccount(t, ag.ID, "North")
	south := f.store.CreateSubAccount(t, ag.ID, "South")
	member := f.store.CreateUser(t, "Member", "member@example.com", identity.RoleSubAccountUser, &ag.ID)
	f.store.Grant(t, member.Email, south.ID, true)

	all, err := f.svc.ListSubAccounts(ctx, owner.ID, ag.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.ListSubAccounts(ctx, member.ID, ag.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, south.ID, mine[0].ID)

	assert.ErrorIs(t, f.svc.DeleteSubAccount(ctx, owner.ID, north.ID, false), shared.ErrConfirmRequired)
	assert.ErrorIs(t, f.svc.DeleteSubAccount(ctx, member.ID, south.ID, true), shared.ErrForbidden)
	require.NoError(t, f.svc.DeleteSubAccount(ctx, owner.ID, south.ID, true))

	_, err = f.store.Permissions.FindByEmailAndSubAccount(ctx, member.Email, south.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, f.messages(t, ag.ID), "Acme Owner | Deleted a subaccount | South")

	got, err := f.svc.GetSubAccount(ctx, north.ID)
	require.NoError(t, err)
	assert.Equal(t, "North", got.Name)
}

func TestUploadService_PresignLogo(t *testing.T) {
	ctx := context.Background()
	svc := NewUploadService(storage.NewLocalStorage("http://localhost:8080/static", 15*time.Minute), zap.NewNop())
	actor := uuid.New()

	up, err := svc.PresignLogo(ctx, actor, PresignLogoInput{Kind: LogoKindAgency, ContentType: "image/PNG"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.Key, "logos/agency/"+actor.String()+"/"))
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/static/"+up.Key, up.PublicURL)

	_, err = svc.PresignLogo(ctx, actor, PresignLogoInput{Kind: LogoKindAgency, ContentType: "application/pdf"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = svc.PresignLogo(ctx, actor, PresignLogoInput{Kind: "pipeline", ContentType: "image/png"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

type failingUploader struct{}

func (failingUploader) PresignUpload(context.Context, string, string) (*storage.PresignedUpload, error) {
	return nil, errors.New("bucket unavailable")
}

func TestUploadService_UploaderFailure(t *testing.T) {
	svc := NewUploadService(failingUploader{}, zap.NewNop())
	_, err := svc.PresignLogo(context.Background(), uuid.New(), PresignLogoInput{Kind: LogoKindSubAccount, ContentType: "image/webp"})
	assert.EqualError(t, err, "bucket unavailable")
}
