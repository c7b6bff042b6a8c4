package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/billing"
	"github.com/motorlane/fleetbooks/logging"
)

var payableAddFlags struct {
	supplier    string
	description string
	category    string
	amount      string
	dueDate     string
	notes       string
}

var payableCmd = &cobra.Command{
	Use:   "payable",
	Short: "Manage accounts payable",
}

var payableAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pending payable",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(payableAddFlags.amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q", payableAddFlags.amount)
		}
		due, err := time.Parse("2006-01-02", payableAddFlags.dueDate)
		if err != nil {
			return fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", payableAddFlags.dueDate)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		payables := billing.NewPayables(app.cache, app.clock, logging.WithComponent("payables"))
		id, err := payables.Add(cmd.Context(), billing.PayableDraft{
			Supplier:    payableAddFlags.supplier,
			Description: payableAddFlags.description,
			Category:    payableAddFlags.category,
			Amount:      amount,
			DueDate:     due,
			Notes:       payableAddFlags.notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("payable %d created\n", id)
		return nil
	},
}

var payableEditCmd = &cobra.Command{
	Use:   "edit <payable-id>",
	Short: "Edit an unpaid payable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid payable id %q", args[0])
		}
		amount, err := decimal.NewFromString(payableAddFlags.amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q", payableAddFlags.amount)
		}
		due, err := time.Parse("2006-01-02", payableAddFlags.dueDate)
		if err != nil {
			return fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", payableAddFlags.dueDate)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		payables := billing.NewPayables(app.cache, app.clock, logging.WithComponent("payables"))
		if err := payables.Update(cmd.Context(), id, billing.PayableDraft{
			Supplier:    payableAddFlags.supplier,
			Description: payableAddFlags.description,
			Category:    payableAddFlags.category,
			Amount:      amount,
			DueDate:     due,
			Notes:       payableAddFlags.notes,
		}); err != nil {
			return err
		}
		fmt.Printf("payable %d updated\n", id)
		return nil
	},
}

var payablePayCmd = &cobra.Command{
	Use:   "pay <payable-id> [method]",
	Short: "Pay a payable",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid payable id %q", args[0])
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

		payables := billing.NewPayables(app.cache, app.clock, logging.WithComponent("payables"))
		if err := payables.Pay(cmd.Context(), id, method); err != nil {
			return err
		}
		fmt.Printf("payable %d marked paid\n", id)
		return nil
	},
}

var payableDeleteCmd = &cobra.Command{
	Use:   "delete <payable-id>",
	Short: "Delete an unpaid payable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid payable id %q", args[0])
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		payables := billing.NewPayables(app.cache, app.clock, logging.WithComponent("payables"))
		if err := payables.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("payable %d deleted\n", id)
		return nil
	},
}

func init() {
	payableAddCmd.Flags().StringVar(&payableAddFlags.supplier, "supplier", "", "supplier name")
	payableAddCmd.Flags().StringVar(&payableAddFlags.description, "description", "", "description")
	payableAddCmd.Flags().StringVar(&payableAddFlags.category, "category", "", "expense category")
	payableAddCmd.Flags().StringVar(&payableAddFlags.amount, "amount", "", "amount, e.g. 150.00")
	payableAddCmd.Flags().StringVar(&payableAddFlags.dueDate, "due", "", "due date YYYY-MM-DD")
	payableAddCmd.Flags().StringVar(&payableAddFlags.notes, "notes", "", "free-form notes")
	_ = payableAddCmd.MarkFlagRequired("amount")
	_ = payableAddCmd.MarkFlagRequired("due")

	payableEditCmd.Flags().StringVar(&payableAddFlags.supplier, "supplier", "", "supplier name")
	payableEditCmd.Flags().StringVar(&payableAddFlags.description, "description", "", "description")
	payableEditCmd.Flags().StringVar(&payableAddFlags.category, "category", "", "expense category")
	payableEditCmd.Flags().StringVar(&payableAddFlags.amount, "amount", "", "amount, e.g. 150.00")
	payableEditCmd.Flags().StringVar(&payableAddFlags.dueDate, "due", "", "due date YYYY-MM-DD")
	payableEditCmd.Flags().StringVar(&payableAddFlags.notes, "notes", "", "free-form notes")
	_ = payableEditCmd.MarkFlagRequired("amount")
	_ = payableEditCmd.MarkFlagRequired("due")

	payableCmd.AddCommand(payableAddCmd)
	payableCmd.AddCommand(payableEditCmd)
	payableCmd.AddCommand(payablePayCmd)
	payableCmd.AddCommand(payableDeleteCmd)
	rootCmd.AddCommand(payableCmd)
}
