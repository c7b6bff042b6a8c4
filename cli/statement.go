package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/billing"
)

var statementCmd = &cobra.Command{
	Use:   "statement [year]",
	Short: "Show the income statement for a year",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		year := app.clock.Now().Year()
		if len(args) == 1 {
			year, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
		}

		agg := billing.NewAggregator(app.cache, app.clock)
		st, err := agg.BuildIncomeStatement(cmd.Context(), year)
		if err != nil {
			return err
		}

		fmt.Printf("Income statement %d\n\nRevenue\n", st.Year)
		for _, c := range st.Revenues {
			fmt.Printf("  %-30s %s\n", c.Name, formatCurrency(c.Amount))
		}
		fmt.Printf("Expenses\n")
		for _, c := range st.Expenses {
			fmt.Printf("  %-30s %s\n", c.Name, formatCurrency(c.Amount))
		}
		fmt.Printf("\ngross revenue: %s\ntotal expense: %s\nnet result:    %s\n",
			formatCurrency(st.GrossRevenue), formatCurrency(st.TotalExpense), formatCurrency(st.NetResult))

		fmt.Printf("\n%-12s %-14s %-14s %-14s\n", "MONTH", "REVENUE", "EXPENSE", "NET")
		for m := 0; m < 12; m++ {
			fmt.Printf("%-12s %-14s %-14s %-14s\n", billing.MonthName(m+1),
				formatCurrency(st.Monthly.Revenue[m]),
				formatCurrency(st.Monthly.Expense[m]),
				formatCurrency(st.Monthly.Net[m]))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard financial summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		agg := billing.NewAggregator(app.cache, app.clock)
		s, err := agg.Summary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("month revenue:        %s\n", formatCurrency(s.MonthRevenue))
		fmt.Printf("month expense:        %s\n", formatCurrency(s.MonthExpense))
		fmt.Printf("month balance:        %s\n", formatCurrency(s.MonthBalance))
		fmt.Printf("active subscriptions: %d\n", s.ActiveSubscriptions)
		fmt.Printf("pending payments:     %d\n", s.PendingPayments)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(summaryCmd)
}
