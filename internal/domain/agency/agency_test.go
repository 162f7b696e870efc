package agency

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProfileInput {
	return ProfileInput{
		Name:         "Acme Growth",
		Logo:         "https://cdn.example.com/acme.png",
		CompanyEmail: "hello@acme.test",
		CompanyPhone: "+1 555 0100",
		Address:      "1 Market St",
		City:         "San Francisco",
		ZipCode:      "94105",
		State:        "CA",
		Country:      "US",
	}
}

func TestProfileInput_Build(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		p, err := validInput().Build("Agency")
		require.NoError(t, err)
		assert.True(t, p.Complete())
		assert.Equal(t, "94105", p.Address.PostalCode())
		assert.Equal(t, "CA", p.Address.State())
	})

	t.Run("short name", func(t *testing.T) {
		in := validInput()
		in.Name = "A"
		_, err := in.Build("Agency")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Agency name must be atleast 2 chars.")
	})

	t.Run("name length counts characters", func(t *testing.T) {
		in := validInput()
		in.Name = "é"
		_, err := in.Build("Agency")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Agency name must be atleast 2 chars.")

		in.Name = "Bé"
		p, err := in.Build("Agency")
		require.NoError(t, err)
		assert.Equal(t, "Bé", p.Name)
	})

	t.Run("missing address blocks submission", func(t *testing.T) {
		in := validInput()
		in.Address = ""
		_, err := in.Build("Agency")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "address is required")
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := ProfileInput{Name: "Acme"}.Build("Sub account")
		require.Error(t, err)
		for _, field := range []string{"companyEmail", "companyPhone", "logo", "address", "city", "zipCode", "state", "country"} {
			assert.Contains(t, err.Error(), field+" is required")
		}
	})
}

func TestNewAgency(t *testing.T) {
	profile, err := validInput().Build("Agency")
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		id := uuid.New()
		a, err := NewAgency(id, "cus_123", profile, true)
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, DefaultGoal, a.Goal)
		assert.Empty(t, a.ConnectAccountID)
		assert.True(t, a.WhiteLabel)
		assert.True(t, a.DetailsComplete())
		require.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("nil id gets generated", func(t *testing.T) {
		a, err := NewAgency(uuid.Nil, "cus_123", profile, false)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, a.ID)
	})

	t.Run("requires customer", func(t *testing.T) {
		_, err := NewAgency(uuid.New(), " ", profile, false)
		assert.Error(t, err)
	})
}

func TestAgency_DetailsComplete(t *testing.T) {
	profile, err := validInput().Build("Agency")
	require.NoError(t, err)
	a, err := NewAgency(uuid.New(), "cus_123", profile, false)
	require.NoError(t, err)

	a.Logo = ""
	assert.False(t, a.DetailsComplete())
}

func TestAgency_SetGoal(t *testing.T) {
	profile, _ := validInput().Build("Agency")
	a, err := NewAgency(uuid.New(), "cus_123", profile, false)
	require.NoError(t, err)
	version := a.Version

	require.NoError(t, a.SetGoal(12))
	assert.Equal(t, 12, a.Goal)
	assert.Equal(t, version+1, a.Version)
	assert.Error(t, a.SetGoal(0))
}

func TestAgency_ConnectAccount(t *testing.T) {
	profile, _ := validInput().Build("Agency")
	a, err := NewAgency(uuid.New(), "cus_123", profile, false)
	require.NoError(t, err)
	a.ClearDomainEvents()

	assert.Error(t, a.ConnectAccount(""))
	require.NoError(t, a.ConnectAccount("acct_1"))
	assert.True(t, a.IsConnected())
	require.Len(t, a.GetDomainEvents(), 1)
	ev := a.GetDomainEvents()[0].(*AccountConnectedEvent)
	assert.Equal(t, "acct_1", ev.ConnectAccountID)

	assert.Error(t, a.ConnectAccount("acct_2"))
	assert.Equal(t, "acct_1", a.ConnectAccountID)
}

func TestNewSubAccount(t *testing.T) {
	profile, _ := validInput().Build("Sub account")
	agencyID := uuid.New()

	s, err := NewSubAccount(agencyID, profile)
	require.NoError(t, err)
	assert.Equal(t, agencyID, s.AgencyID)
	assert.Equal(t, DefaultGoal, s.Goal)
	assert.True(t, s.DetailsComplete())

	_, err = NewSubAccount(uuid.Nil, profile)
	assert.Error(t, err)

	require.NoError(t, s.ConnectAccount("acct_sub"))
	assert.Error(t, s.ConnectAccount("acct_other"))
}
