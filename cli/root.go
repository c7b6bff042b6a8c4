package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/logging"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "fleetbooks",
	Short: "FleetBooks - financial back office for vehicle subscriptions",
	Long: `FleetBooks manages the financial bookkeeping of a vehicle-subscription
business: receivable reconciliation, payment receipt, cash-flow ledger
and yearly income statements, all on top of cached flat-file tables.

Configuration comes from FLEETBOOKS_* environment variables (or a .env
file); see the config package for the full list.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logging.WithComponent("cli")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
