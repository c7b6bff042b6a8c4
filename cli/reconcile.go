package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/billing"
	"github.com/motorlane/fleetbooks/logging"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Synthesize missing receivables and list all of them",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		engine := billing.NewReconciler(app.cache, app.clock, logging.WithComponent("reconcile"))
		views, err := engine.ReconcileReceivables(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%-5s %-25s %-12s %-12s %-10s\n", "ID", "CUSTOMER", "AMOUNT", "DUE", "STATUS")
		for _, v := range views {
			fmt.Printf("%-5d %-25s %-12s %-12s %-10s\n",
				v.ID, v.CustomerName, formatCurrency(v.Amount), v.DueDateDisplay, v.Status)
		}
		fmt.Printf("\n%d receivable(s)\n", len(views))
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <receivable-id> [method]",
	Short: "Receive payment for a receivable",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid receivable id %q", args[0])
		}
		method := ""
		if len(args) > 1 {
			method = args[1]
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		engine := billing.NewReconciler(app.cache, app.clock, logging.WithComponent("reconcile"))
		if err := engine.ReceivePayment(cmd.Context(), id, method); err != nil {
			return err
		}
		fmt.Printf("receivable %d marked paid\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(payCmd)
}
