package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	billingapp "github.com/lumio/backend/internal/application/billing"
	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintToken(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "lumioctl-test-secret-lumioctl-test",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "lumio",
	})
	user, err := identity.NewUser("Ada", "ada@acme.test", identity.RoleAgencyOwner)
	require.NoError(t, err)
	agencyID := uuid.New()
	user.AgencyID = &agencyID

	pair, err := mintToken(jwtService, user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "AGENCY_OWNER", claims.Role)
	assert.Equal(t, agencyID.String(), claims.AgencyID)

	var buf bytes.Buffer
	require.NoError(t, printToken(&buf, pair, false))
	assert.Contains(t, buf.String(), pair.AccessToken)
}

func TestPrintPlans(t *testing.T) {
	cards := []billingapp.PricingCard{
		{Title: "Starter", Price: "$0", Amount: decimal.Zero, Interval: "month", Features: []string{"3 sub accounts"}},
		{Title: "Unlimited Saas", Price: "$199", Amount: decimal.NewFromInt(199), Interval: "month", PriceID: "price_2", Highlighted: true},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printPlans(&buf, cards, false))
		out := buf.String()
		assert.Contains(t, out, "TITLE")
		assert.Contains(t, out, "Unlimited Saas *")
		assert.Contains(t, out, "price_2")
		assert.Contains(t, out, "3 sub accounts")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printPlans(&buf, cards, true))
		var got []billingapp.PricingCard
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "$199", got[1].Price)
	})
}

func TestPrintLaunchpad(t *testing.T) {
	lp := &billingapp.Launchpad{
		EntityID:         uuid.New(),
		AccountType:      "agency",
		DetailsComplete:  true,
		Connected:        true,
		ConnectAccountID: "acct_1",
		StripeOAuthLink:  "https://connect.example/oauth",
	}
	var buf bytes.Buffer
	require.NoError(t, printLaunchpad(&buf, lp, false))
	out := buf.String()
	assert.Contains(t, out, "[x] business details")
	assert.Contains(t, out, "(acct_1)")
	assert.Contains(t, out, "connect link: https://connect.example/oauth")
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := parseID("agency", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("agency", "acme")
	assert.EqualError(t, err, "--agency must be a UUID")
}

func TestLaunchpadFlagGroups(t *testing.T) {
	t.Cleanup(func() {
		launchpadAgency, launchpadSubAccount = "", ""
		rootCmd.SetArgs(nil)
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	rootCmd.SetArgs([]string{"launchpad"})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"launchpad", "--agency", uuid.NewString(), "--subaccount", uuid.NewString()})
	assert.Error(t, rootCmd.Execute())
}
