package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestAdapter points an adapter at an httptest server standing in for
// both the API and Connect hosts
func newTestAdapter(t *testing.T, handler http.HandlerFunc) *StripeAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewStripeAdapter(&StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL}, zap.NewNop())
	require.NoError(t, err)
	return adapter
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestStripeConfig_Validate(t *testing.T) {
	assert.Error(t, (&StripeConfig{}).Validate())
	assert.Error(t, (&StripeConfig{SecretKey: "pk_test_1"}).Validate())
	assert.NoError(t, (&StripeConfig{SecretKey: "sk_test_1"}).Validate())
}

func TestStripeAdapter_CreateCustomer(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "owner@acme.io", r.PostForm.Get("email"))
		assert.Equal(t, "IL", r.PostForm.Get("address[state]"))
		assert.Equal(t, "12345", r.PostForm.Get("address[postal_code]"))
		assert.Equal(t, "Acme", r.PostForm.Get("shipping[name]"))
		assert.Equal(t, "1 Main St", r.PostForm.Get("shipping[address][line1]"))
		writeJSON(w, http.StatusOK, map[string]any{"id": "cus_123", "object": "customer"})
	})

	addr := Address{Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "12345", Country: "US"}
	id, err := adapter.CreateCustomer(context.Background(), CustomerInput{
		Email:        "owner@acme.io",
		Name:         "Acme",
		Address:      addr,
		ShippingName: "Acme",
		Shipping:     addr,
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)
}

func TestStripeAdapter_CreateCustomer_Error(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "bad email"},
		})
	})

	_, err := adapter.CreateCustomer(context.Background(), CustomerInput{Email: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPaymentProvider)
}

func TestStripeAdapter_ExchangeOAuthCode(t *testing.T) {
	t.Run("returns the connected account", func(t *testing.T) {
		adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "ac_abc", r.PostForm.Get("code"))
			writeJSON(w, http.StatusOK, map[string]any{"stripe_user_id": "acct_42", "token_type": "bearer"})
		})

		acct, err := adapter.ExchangeOAuthCode(context.Background(), "ac_abc")
		require.NoError(t, err)
		assert.Equal(t, "acct_42", acct)
	})

	t.Run("invalid grant is a provider error", func(t *testing.T) {
		adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Authorization code does not exist",
			})
		})

		_, err := adapter.ExchangeOAuthCode(context.Background(), "used")
		assert.ErrorIs(t, err, shared.ErrPaymentProvider)
	})
}

func TestStripeAdapter_ListActivePrices(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/prices", r.URL.Path)
		assert.Equal(t, "prod_1", r.URL.Query().Get("product"))
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		writeJSON(w, http.StatusOK, map[string]any{
			"object":   "list",
			"has_more": false,
			"url":      "/v1/prices",
			"data": []map[string]any{
				{"id": "price_basic", "object": "price", "nickname": "Basic", "unit_amount": 4900, "currency": "usd", "recurring": map[string]any{"interval": "month"}},
				{"id": "price_saas", "object": "price", "nickname": "Unlimited Saas", "unit_amount": 19900, "currency": "usd", "recurring": map[string]any{"interval": "month"}},
			},
		})
	})

	prices, err := adapter.ListActivePrices(context.Background(), "prod_1")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, Price{ID: "price_basic", Nickname: "Basic", UnitAmount: 4900, Currency: "usd", Interval: "month"}, prices[0])
	assert.Equal(t, "Unlimited Saas", prices[1].Nickname)
}

func TestOAuthLink(t *testing.T) {
	id := uuid.MustParse("6f1c2b1e-3d4a-4b5c-8d9e-0f1a2b3c4d5e")
	link := OAuthLink("ca_123", "https://app.lumio.io/", "agency", OAuthState("launchpad", id))
	assert.Equal(t,
		"https://connect.stripe.com/oauth/authorize?response_type=code&client_id=ca_123&scope=read_write&redirect_uri=https://app.lumio.io/agency&state=launchpad___6f1c2b1e-3d4a-4b5c-8d9e-0f1a2b3c4d5e",
		link)
}

func TestParseOAuthState(t *testing.T) {
	id := uuid.New()

	path, got, err := ParseOAuthState("launchpad___" + id.String())
	require.NoError(t, err)
	assert.Equal(t, "launchpad", path)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "launchpad", "___" + id.String(), "launchpad___not-a-uuid"} {
		_, _, err := ParseOAuthState(bad)
		assert.Error(t, err, bad)
	}
}
