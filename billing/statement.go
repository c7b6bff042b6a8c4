/*
statement.go - Yearly income statement by category

PURPOSE:
  Groups the year's realized transactions by category and type, then
  folds still-pending payables due within the year into the matching
  expense categories. This recognizes not-yet-paid obligations on an
  accrual basis while excluding paid payables, which are already
  counted as realized expense transactions.
*/
package billing

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount is one line of a category breakdown.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthlySeries breaks the year into twelve buckets for trend display.
type MonthlySeries struct {
	Revenue [12]decimal.Decimal
	Expense [12]decimal.Decimal
	Net     [12]decimal.Decimal
}

type IncomeStatement struct {
	Year         int
	Revenues     []CategoryAmount
	Expenses     []CategoryAmount
	GrossRevenue decimal.Decimal
	TotalExpense decimal.Decimal
	NetResult    decimal.Decimal
	Monthly      MonthlySeries
}

// BuildIncomeStatement aggregates one calendar year.
func (a *Aggregator) BuildIncomeStatement(ctx context.Context, year int) (*IncomeStatement, error) {
	txT, err := a.tables.Get(ctx, TableTransactions, false)
	if err != nil {
		return nil, err
	}
	payT, err := a.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return nil, err
	}

	period := YearPeriod(year)

	var transactions []Transaction
	for i, row := range txT.Rows {
		if row["amount"].IsEmpty() {
			continue
		}
		tx, err := transactionFromRow(TableTransactions, i, row)
		if err != nil {
			return nil, err
		}
		if period.Contains(tx.Date) {
			transactions = append(transactions, tx)
		}
	}

	// Pending payables due in the year are recognized as expenses even
	// though no cash has moved yet. Overdue and paid ones are not: the
	// former are past obligations, the latter already realized.
	var pendingPayables []Payable
	for i, row := range payT.Rows {
		if row["amount"].IsEmpty() || row["status"].Raw() != StatusPending {
			continue
		}
		pay, err := payableFromRow(TablePayables, i, row)
		if err != nil {
			return nil, err
		}
		if period.Contains(pay.DueDate) {
			pendingPayables = append(pendingPayables, pay)
		}
	}

	revenueByCat := map[string]decimal.Decimal{}
	expenseByCat := map[string]decimal.Decimal{}
	var monthly MonthlySeries

	for _, tx := range transactions {
		m := int(tx.Date.Month()) - 1
		switch tx.Type {
		case TypeRevenue:
			revenueByCat[tx.Category] = amountOf(revenueByCat, tx.Category).Add(tx.Amount)
			monthly.Revenue[m] = monthly.Revenue[m].Add(tx.Amount)
		case TypeExpense:
			expenseByCat[tx.Category] = amountOf(expenseByCat, tx.Category).Add(tx.Amount)
			monthly.Expense[m] = monthly.Expense[m].Add(tx.Amount)
		}
	}
	for _, pay := range pendingPayables {
		category := pay.Category
		if category == "" {
			category = CategoryOther
		}
		expenseByCat[category] = amountOf(expenseByCat, category).Add(pay.Amount)
		m := int(pay.DueDate.Month()) - 1
		monthly.Expense[m] = monthly.Expense[m].Add(pay.Amount)
	}
	for m := 0; m < 12; m++ {
		monthly.Net[m] = monthly.Revenue[m].Sub(monthly.Expense[m])
	}

	st := &IncomeStatement{
		Year:     year,
		Revenues: sortedCategories(revenueByCat),
		Expenses: sortedCategories(expenseByCat),
		Monthly:  monthly,
	}
	st.GrossRevenue = sumCategories(st.Revenues)
	st.TotalExpense = sumCategories(st.Expenses)
	st.NetResult = st.GrossRevenue.Sub(st.TotalExpense)
	return st, nil
}

func amountOf(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

func sortedCategories(m map[string]decimal.Decimal) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sumCategories(cats []CategoryAmount) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cats {
		total = total.Add(c.Amount)
	}
	return total
}

// MonthName renders a 1-based month index for report labels.
func MonthName(m int) string {
	return time.Month(m).String()
}
