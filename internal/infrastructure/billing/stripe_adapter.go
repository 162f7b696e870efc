// Package billing talks to Stripe: billing customers, Connect OAuth and the
// price list behind the pricing page.
package billing

import (
	"context"
	"fmt"

	"github.com/lumio/backend/internal/domain/shared"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

// Address is a postal address as Stripe expects it
type Address struct {
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// CustomerInput is what a billing customer is created from
type CustomerInput struct {
	Email        string
	Name         string
	Address      Address
	ShippingName string
	Shipping     Address
}

// Price is an active recurring price of the product
type Price struct {
	ID         string
	Nickname   string
	UnitAmount int64 // minor units
	Currency   string
	Interval   string
}

// StripeAdapter wraps a Stripe client. Each adapter owns its client so
// tests and multiple keys never share global state.
type StripeAdapter struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(cfg *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newStripeAdapter(cfg.SecretKey, cfg.backends(), logger), nil
}

func newStripeAdapter(key string, backends *stripe.Backends, logger *zap.Logger) *StripeAdapter {
	api := &client.API{}
	api.Init(key, backends)
	return &StripeAdapter{api: api, logger: logger}
}

// CreateCustomer creates a billing customer and returns its id
func (a *StripeAdapter) CreateCustomer(ctx context.Context, in CustomerInput) (string, error) {
	params := &stripe.CustomerParams{
		Email:   stripe.String(in.Email),
		Name:    stripe.String(in.Name),
		Address: addressParams(in.Address),
		Shipping: &stripe.CustomerShippingParams{
			Name:    stripe.String(in.ShippingName),
			Address: addressParams(in.Shipping),
		},
	}
	params.Context = ctx

	cust, err := a.api.Customers.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer", zap.String("email", in.Email), zap.Error(err))
		return "", providerError("create customer", err)
	}
	a.logger.Info("Created Stripe customer", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

func addressParams(a Address) *stripe.AddressParams {
	return &stripe.AddressParams{
		Line1:      stripe.String(a.Line1),
		City:       stripe.String(a.City),
		State:      stripe.String(a.State),
		PostalCode: stripe.String(a.PostalCode),
		Country:    stripe.String(a.Country),
	}
}

// ExchangeOAuthCode trades a Connect authorization code for the connected
// account id (stripe_user_id)
func (a *StripeAdapter) ExchangeOAuthCode(ctx context.Context, code string) (string, error) {
	params := &stripe.OAuthTokenParams{
		GrantType: stripe.String("authorization_code"),
		Code:      stripe.String(code),
	}
	params.Context = ctx

	token, err := a.api.OAuth.New(params)
	if err != nil {
		return "", providerError("oauth token exchange", err)
	}
	if token.StripeUserID == "" {
		return "", providerError("oauth token exchange", fmt.Errorf("response has no stripe_user_id"))
	}
	return token.StripeUserID, nil
}

// ListActivePrices lists the active prices of productID in API order
func (a *StripeAdapter) ListActivePrices(ctx context.Context, productID string) ([]Price, error) {
	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx

	var out []Price
	it := a.api.Prices.List(params)
	for it.Next() {
		p := it.Price()
		price := Price{
			ID:         p.ID,
			Nickname:   p.Nickname,
			UnitAmount: p.UnitAmount,
			Currency:   string(p.Currency),
		}
		if p.Recurring != nil {
			price.Interval = string(p.Recurring.Interval)
		}
		out = append(out, price)
	}
	if err := it.Err(); err != nil {
		return nil, providerError("list prices", err)
	}
	return out, nil
}

func providerError(op string, err error) error {
	return fmt.Errorf("%w: stripe %s: %w", shared.ErrPaymentProvider, op, err)
}
