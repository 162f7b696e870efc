package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	billingapp "github.com/lumio/backend/internal/application/billing"
	"github.com/lumio/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var (
	launchpadAgency     string
	launchpadSubAccount string
)

// launchpadCmd prints an onboarding checklist and its payment connect link
var launchpadCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "Show the onboarding checklist and payment connect link",
	Long: `Show the launchpad checklist of an agency or sub-account, including the
OAuth link the owner follows to connect a payment account.`,
	Example: `  lumioctl launchpad --agency 7b0e...
  lumioctl launchpad --subaccount 91c2... --json`,
	RunE: runLaunchpad,
}

func init() {
	launchpadCmd.Flags().StringVar(&launchpadAgency, "agency", "", "Agency id")
	launchpadCmd.Flags().StringVar(&launchpadSubAccount, "subaccount", "", "Sub-account id")
	launchpadCmd.MarkFlagsOneRequired("agency", "subaccount")
	launchpadCmd.MarkFlagsMutuallyExclusive("agency", "subaccount")
}

func runLaunchpad(cmd *cobra.Command, _ []string) error {
	e, done, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer done()

	db, err := e.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// no authorization code is passed, so the provider and publisher are
	// never reached
	svc := billingapp.NewLaunchpadService(
		persistence.NewGormAgencyRepository(db.DB),
		persistence.NewGormSubAccountRepository(db.DB),
		persistence.NewGormUserRepository(db.DB),
		nil,
		billingapp.LaunchpadConfig{ClientID: e.cfg.Stripe.ClientID, BaseURL: e.cfg.App.BaseURL},
		nil,
		e.log,
	)

	var lp *billingapp.Launchpad
	switch {
	case launchpadAgency != "":
		id, perr := parseID("agency", launchpadAgency)
		if perr != nil {
			return perr
		}
		lp, err = svc.AgencyLaunchpad(e.ctx, id, "")
	default:
		id, perr := parseID("subaccount", launchpadSubAccount)
		if perr != nil {
			return perr
		}
		lp, err = svc.SubAccountLaunchpad(e.ctx, id, "")
	}
	if err != nil {
		return err
	}
	return printLaunchpad(cmd.OutOrStdout(), lp, jsonOutput)
}

func parseID(flag, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.New("--" + flag + " must be a UUID")
	}
	return id, nil
}

func printLaunchpad(w io.Writer, lp *billingapp.Launchpad, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lp)
	}
	check := func(done bool) string {
		if done {
			return "[x]"
		}
		return "[ ]"
	}
	fmt.Fprintf(w, "%s %s\n", lp.AccountType, lp.EntityID)
	fmt.Fprintf(w, "  %s business details\n", check(lp.DetailsComplete))
	fmt.Fprintf(w, "  %s payment account connected", check(lp.Connected))
	if lp.ConnectAccountID != "" {
		fmt.Fprintf(w, " (%s)", lp.ConnectAccountID)
	}
	fmt.Fprintln(w)
	_, err := fmt.Fprintf(w, "connect link: %s\n", lp.StripeOAuthLink)
	return err
}
