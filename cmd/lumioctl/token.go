package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lumio/backend/internal/domain/identity"
	"github.com/lumio/backend/internal/infrastructure/auth"
	"github.com/lumio/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var tokenEmail string

// tokenCmd mints a token pair for an existing user
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access and refresh token for a user",
	Long: `Mint a token pair for an existing user, signed with the configured
JWT secret. The role and agency are read from the database, so the token
reflects the user's current membership.`,
	Example: `  lumioctl token --email owner@acme.test
  lumioctl token --email owner@acme.test --json`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "User email (required)")
	_ = tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, _ []string) error {
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

	user, err := persistence.NewGormUserRepository(db.DB).FindByEmail(e.ctx, strings.ToLower(strings.TrimSpace(tokenEmail)))
	if err != nil {
		return fmt.Errorf("find user %s: %w", tokenEmail, err)
	}

	pair, err := mintToken(auth.NewJWTService(e.cfg.JWT), user)
	if err != nil {
		return err
	}
	return printToken(cmd.OutOrStdout(), pair, jsonOutput)
}

func mintToken(jwtService *auth.JWTService, user *identity.User) (*auth.TokenPair, error) {
	pair, err := jwtService.GenerateTokenPair(auth.Principal{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		AgencyID: user.AgencyID,
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return pair, nil
}

func printToken(w io.Writer, pair *auth.TokenPair, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pair)
	}
	_, err := fmt.Fprintf(w, "access_token:  %s\nrefresh_token: %s\nexpires_at:    %s\n",
		pair.AccessToken, pair.RefreshToken, pair.AccessTokenExpiresAt.Format("2006-01-02 15:04:05Z07:00"))
	return err
}
