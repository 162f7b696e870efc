// Package billing holds the billing use cases: customers, the pricing page
// and the payment account launchpad.
package billing

import (
	"context"
	"strings"

	"github.com/lumio/backend/internal/domain/shared"
	"github.com/lumio/backend/internal/infrastructure/billing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentProvider is the subset of the payment provider Lumio uses
type PaymentProvider interface {
	CreateCustomer(ctx context.Context, in billing.CustomerInput) (string, error)
	ExchangeOAuthCode(ctx context.Context, code string) (string, error)
	ListActivePrices(ctx context.Context, productID string) ([]billing.Price, error)
}

// Address is a billing or shipping address
type Address struct {
	Line1      string `json:"line1" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// Shipping is the shipping contact of a customer
type Shipping struct {
	Name    string  `json:"name" binding:"required"`
	Address Address `json:"address" binding:"required"`
}

// CreateCustomerInput is the customer-creation payload
type CreateCustomerInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required"`
	Shipping Shipping `json:"shipping" binding:"required"`
	Address  Address  `json:"address" binding:"required"`
}

// Service creates billing customers and lists plans
type Service struct {
	provider  PaymentProvider
	productID string
	logger    *zap.Logger
}

// NewService creates a billing Service. productID is the product whose
// active prices make up the pricing page.
func NewService(provider PaymentProvider, productID string, logger *zap.Logger) *Service {
	return &Service{provider: provider, productID: productID, logger: logger}
}

// CreateCustomer creates a billing customer and returns its id
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (string, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "email and name are required")
	}
	return s.provider.CreateCustomer(ctx, billing.CustomerInput{
		Email:        in.Email,
		Name:         in.Name,
		Address:      toProviderAddress(in.Address),
		ShippingName: in.Shipping.Name,
		Shipping:     toProviderAddress(in.Shipping.Address),
	})
}

func toProviderAddress(a Address) billing.Address {
	return billing.Address{
		Line1:      a.Line1,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// ListPlans returns the free plan followed by one card per active price
func (s *Service) ListPlans(ctx context.Context) ([]PricingCard, error) {
	cards := []PricingCard{StarterCard()}
	if s.productID == "" {
		s.logger.Warn("No billing product configured; listing the free plan only")
		return cards, nil
	}

	prices, err := s.provider.ListActivePrices(ctx, s.productID)
	if err != nil {
		return nil, err
	}
	for _, p := range prices {
		cards = append(cards, cardFor(p))
	}
	return cards, nil
}

func cardFor(p billing.Price) PricingCard {
	card, ok := staticCard(p.Nickname)
	if !ok {
		card = PricingCard{Title: p.Nickname, Features: []string{}}
	}
	amount := decimal.New(p.UnitAmount, -2)
	card.Title = p.Nickname
	card.Amount = amount
	card.Price = "$" + amount.String()
	card.Currency = p.Currency
	card.Interval = p.Interval
	card.PriceID = p.ID
	card.Highlighted = p.Nickname == HighlightedPlan
	card.Link = "/agency?plan=" + p.ID
	return card
}
