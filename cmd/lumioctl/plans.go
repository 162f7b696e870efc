package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	billingapp "github.com/lumio/backend/internal/application/billing"
	"github.com/lumio/backend/internal/infrastructure/billing"
	"github.com/spf13/cobra"
)

// plansCmd lists the pricing cards the site shows
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans from the payment provider",
	RunE:  runPlans,
}

func runPlans(cmd *cobra.Command, _ []string) error {
	e, done, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer done()

	adapter, err := billing.NewStripeAdapter(&billing.StripeConfig{
		SecretKey: e.cfg.Stripe.SecretKey,
		ClientID:  e.cfg.Stripe.ClientID,
		APIURL:    e.cfg.Stripe.APIURL,
	}, e.log)
	if err != nil {
		return err
	}

	cards, err := billingapp.NewService(adapter, e.cfg.Billing.ProductID, e.log).ListPlans(e.ctx)
	if err != nil {
		return fmt.Errorf("list plans: %w", err)
	}
	return printPlans(cmd.OutOrStdout(), cards, jsonOutput)
}

func printPlans(w io.Writer, cards []billingapp.PricingCard, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tPRICE\tINTERVAL\tPRICE ID\tFEATURES")
	for _, c := range cards {
		title := c.Title
		if c.Highlighted {
			title += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", title, c.Price, c.Interval, c.PriceID, strings.Join(c.Features, ", "))
	}
	return tw.Flush()
}
