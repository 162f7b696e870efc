package billing

import (
	"github.com/shopspring/decimal"
)

// HighlightedPlan is the nickname of the plan shown as recommended
const HighlightedPlan = "Unlimited Saas"

// PricingCard is one plan on the public pricing page
type PricingCard struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Interval    string          `json:"interval"`
	Features    []string        `json:"features"`
	Highlighted bool            `json:"highlighted"`
	PriceID     string          `json:"priceId,omitempty"`
	Link        string          `json:"link"`
}

// staticCards carry the marketing copy for each plan. The first card is the
// free plan, which has no price in the payment provider.
var staticCards = []PricingCard{
	{
		Title:       "Starter",
		Description: "Perfect for trying out Lumio",
		Price:       "$0",
		Amount:      decimal.Zero,
		Interval:    "month",
		Features:    []string{"3 Sub accounts", "2 Team members", "Unlimited pipelines"},
		Link:        "/agency",
	},
	{
		Title:       "Unlimited Saas",
		Description: "The ultimate agency kit",
		Price:       "$199",
		Amount:      decimal.NewFromInt(199),
		Interval:    "month",
		Features:    []string{"Rebilling", "24/7 Support team"},
	},
	{
		Title:       "Basic",
		Description: "For serious agency owners",
		Price:       "$49",
		Amount:      decimal.NewFromInt(49),
		Interval:    "month",
		Features:    []string{"Unlimited Sub accounts", "Unlimited Team members"},
	},
}

// StarterCard returns the free plan card
func StarterCard() PricingCard {
	return cloneCard(staticCards[0])
}

// staticCard finds the marketing card whose title equals nickname
func staticCard(nickname string) (PricingCard, bool) {
	for _, c := range staticCards {
		if c.Title == nickname {
			return cloneCard(c), true
		}
	}
	return PricingCard{}, false
}

func cloneCard(c PricingCard) PricingCard {
	c.Features = append([]string(nil), c.Features...)
	return c
}
