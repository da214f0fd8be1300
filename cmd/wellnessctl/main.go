// Command wellnessctl runs operator tasks against the wellness database and
// claim store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/campus-wellness-api/pkg/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "wellnessctl",
	Short:         "Operator tasks for the campus wellness API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		cfg = config.Load()
		cfg.SetupLogging()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, bootstrapCmd, issueTokenCmd, cleanupCmd, syncClaimsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
