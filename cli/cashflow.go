package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/motorlane/fleetbooks/billing"
)

var cashflowFlags struct {
	search    string
	direction string
	status    string
	page      int
}

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Show the unified cash-flow ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		agg := billing.NewAggregator(app.cache, app.clock)
		report, err := agg.BuildLedger(cmd.Context(), billing.Filter{
			Search:    cashflowFlags.search,
			Direction: cashflowFlags.direction,
			Status:    cashflowFlags.status,
		}, cashflowFlags.page, app.cfg.PageSize)
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %-45s %-8s %-12s %-10s\n", "DATE", "DESCRIPTION", "DIR", "AMOUNT", "STATUS")
		for _, e := range report.Entries {
			fmt.Printf("%-12s %-45s %-8s %-12s %-10s\n",
				billing.FormatDate(e.Date), truncate(e.Description, 45), e.Direction,
				formatCurrency(e.Amount), e.Status)
		}

		t := report.Totals
		fmt.Printf("\nbalance: %s  month in/out: %s / %s\n",
			formatCurrency(t.RunningBalance), formatCurrency(t.MonthInflow), formatCurrency(t.MonthOutflow))
		fmt.Printf("projected in/out: %s / %s  overdue in/out: %s / %s\n",
			formatCurrency(t.ProjectedInflow), formatCurrency(t.ProjectedOutflow),
			formatCurrency(t.OverdueInflow), formatCurrency(t.OverdueOutflow))
		fmt.Printf("page %d/%d (%d entries)\n", report.Page, report.TotalPages, report.Total)
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	cashflowCmd.Flags().StringVar(&cashflowFlags.search, "search", "", "filter by description or category")
	cashflowCmd.Flags().StringVar(&cashflowFlags.direction, "direction", "", "filter by direction (entrada|saida)")
	cashflowCmd.Flags().StringVar(&cashflowFlags.status, "status", "", "filter by status (realizado|previsto|vencido)")
	cashflowCmd.Flags().IntVar(&cashflowFlags.page, "page", 1, "page number")
	rootCmd.AddCommand(cashflowCmd)
}
