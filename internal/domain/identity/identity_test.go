package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	bcryptCost = 4
}

func TestNewUser(t *testing.T) {
	t.Run("creates user with normalized email", func(t *testing.T) {
		user, err := NewUser("Jane Doe", "  Jane@Example.COM ", RoleAgencyOwner)

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, RoleAgencyOwner, user.Role)
		assert.Nil(t, user.AgencyID)

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("allows empty role", func(t *testing.T) {
		user, err := NewUser("Jane", "jane@example.com", "")
		require.NoError(t, err)
		assert.False(t, user.HasRole())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("Jane", "not-an-email", RoleAgencyOwner)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email format")
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("  ", "jane@example.com", RoleAgencyOwner)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("Jane", "jane@example.com", Role("SUPERUSER"))
		assert.Error(t, err)
	})
}

func TestUser_Password(t *testing.T) {
	user, err := NewUser("Jane", "jane@example.com", RoleAgencyOwner)
	require.NoError(t, err)

	assert.False(t, user.VerifyPassword("anything"))
	assert.Error(t, user.SetPassword("short"))

	require.NoError(t, user.SetPassword("correct horse"))
	assert.True(t, user.VerifyPassword("correct horse"))
	assert.False(t, user.VerifyPassword("wrong horse"))
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser("Jane", "jane@example.com", RoleSubAccountUser)
	require.NoError(t, err)
	user.ClearDomainEvents()

	require.NoError(t, user.ChangeRole(RoleAgencyAdmin))
	assert.Equal(t, RoleAgencyAdmin, user.Role)
	require.Len(t, user.GetDomainEvents(), 1)
	ev := user.GetDomainEvents()[0].(*UserRoleChangedEvent)
	assert.Equal(t, RoleSubAccountUser, ev.OldRole)

	user.ClearDomainEvents()
	require.NoError(t, user.ChangeRole(RoleAgencyAdmin))
	assert.Empty(t, user.GetDomainEvents())

	assert.Error(t, user.ChangeRole("nope"))
}

func TestUser_HasSubAccountAccess(t *testing.T) {
	sub := uuid.New()
	other := uuid.New()
	denied := uuid.New()

	user, err := NewUser("Jane", "jane@example.com", RoleSubAccountUser)
	require.NoError(t, err)
	user.Permissions = []Permission{
		{Email: user.Email, SubAccountID: sub, Access: true},
		{Email: user.Email, SubAccountID: denied, Access: false},
	}

	assert.True(t, user.HasSubAccountAccess(sub))
	assert.False(t, user.HasSubAccountAccess(denied))
	assert.False(t, user.HasSubAccountAccess(other))
}

func TestUser_JoinAgency(t *testing.T) {
	user, err := NewUser("Jane", "jane@example.com", RoleAgencyOwner)
	require.NoError(t, err)

	agencyID := uuid.New()
	assert.Error(t, user.JoinAgency(uuid.Nil))
	require.NoError(t, user.JoinAgency(agencyID))
	assert.True(t, user.BelongsTo(agencyID))
	assert.False(t, user.BelongsTo(uuid.New()))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" agency_admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAgencyAdmin, r)
	assert.True(t, r.IsAgencyWide())
	assert.False(t, RoleSubAccountGuest.IsAgencyWide())

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestNewPermission(t *testing.T) {
	sub := uuid.New()
	p, err := NewPermission("Team@Example.com", sub, true)
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", p.Email)
	assert.True(t, p.Access)

	p.SetAccess(false)
	assert.False(t, p.Access)

	_, err = NewPermission("team@example.com", uuid.Nil, true)
	assert.Error(t, err)
}

func TestInvitation_Lifecycle(t *testing.T) {
	agencyID := uuid.New()

	t.Run("owner role cannot be invited", func(t *testing.T) {
		_, err := NewInvitation(agencyID, "a@b.co", RoleAgencyOwner)
		assert.Error(t, err)
	})

	t.Run("accept once", func(t *testing.T) {
		inv, err := NewInvitation(agencyID, "a@b.co", RoleSubAccountUser)
		require.NoError(t, err)
		assert.True(t, inv.IsPending())
		require.Len(t, inv.GetDomainEvents(), 1)

		require.NoError(t, inv.Accept())
		assert.Equal(t, InvitationStatusAccepted, inv.Status)
		assert.Error(t, inv.Accept())
		assert.Error(t, inv.Revoke())
	})

	t.Run("expiry only applies to pending", func(t *testing.T) {
		inv, err := NewInvitation(agencyID, "a@b.co", RoleAgencyAdmin)
		require.NoError(t, err)
		inv.CreatedAt = time.Now().Add(-48 * time.Hour)

		assert.True(t, inv.IsExpired(24*time.Hour, time.Now()))
		assert.False(t, inv.IsExpired(72*time.Hour, time.Now()))
		assert.False(t, inv.IsExpired(0, time.Now()))

		require.NoError(t, inv.Revoke())
		assert.False(t, inv.IsExpired(24*time.Hour, time.Now()))
	})
}
