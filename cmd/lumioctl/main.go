// Command lumioctl is the Lumio operator CLI. It talks to the same database
// and payment provider as the server and never goes through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	jsonOutput bool
	timeout    time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lumioctl",
	Short: "Operate a Lumio deployment",
	Long: `lumioctl runs operator tasks against a Lumio deployment.

Configuration is read exactly like the server reads it: config.toml,
.env and LUMIO_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(launchpadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command needs: config, a logger and a bounded context
type env struct {
	cfg *config.Config
	log *zap.Logger
	ctx context.Context
}

func newEnv(cmd *cobra.Command) (*env, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return &env{cfg: cfg, log: log, ctx: ctx}, func() {
		cancel()
		_ = logger.Sync(log)
	}, nil
}

func (e *env) openDatabase() (*persistence.Database, error) {
	db, err := persistence.NewDatabase(&e.cfg.Database, persistence.Options{Logger: e.log})
	if err != nil {
		return nil, err
	}
	return db, nil
}
