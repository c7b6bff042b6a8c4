package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DASHBOARD SUMMARY
// =============================================================================

// Summary is the headline financial snapshot for the dashboard.
type Summary struct {
	MonthRevenue        decimal.Decimal
	MonthExpense        decimal.Decimal
	MonthBalance        decimal.Decimal
	ActiveSubscriptions int
	PendingPayments     int
}

// Summary computes current-month revenue/expense from transactions, the
// count of subscriptions still inside their term, and pending payments.
func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	txT, err := a.tables.Get(ctx, TableTransactions, false)
	if err != nil {
		return nil, err
	}
	subsT, err := a.tables.Get(ctx, TableSubscriptions, false)
	if err != nil {
		return nil, err
	}
	payT, err := a.tables.Get(ctx, TablePayments, false)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	monthStart := startOfMonth(now)
	s := &Summary{
		MonthRevenue: decimal.Zero,
		MonthExpense: decimal.Zero,
	}

	for i, row := range txT.Rows {
		if row["amount"].IsEmpty() {
			continue
		}
		tx, err := transactionFromRow(TableTransactions, i, row)
		if err != nil {
			return nil, err
		}
		if tx.Date.Before(monthStart) {
			continue
		}
		switch tx.Type {
		case TypeRevenue:
			s.MonthRevenue = s.MonthRevenue.Add(tx.Amount)
		case TypeExpense:
			s.MonthExpense = s.MonthExpense.Add(tx.Amount)
		}
	}
	s.MonthBalance = s.MonthRevenue.Sub(s.MonthExpense)

	for _, row := range subsT.Rows {
		end, ok := parseDate(row["end_date"].Raw())
		if ok && !end.Before(now) {
			s.ActiveSubscriptions++
		}
	}

	for _, row := range payT.Rows {
		if row["status"].Raw() == StatusPending {
			s.PendingPayments++
		}
	}
	return s, nil
}
