package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/fleetbooks/billing"
)

func buildStatement(t *testing.T, f *fixture, year int) *billing.IncomeStatement {
	t.Helper()
	st, err := f.aggregator().BuildIncomeStatement(context.Background(), year)
	require.NoError(t, err)
	return st
}

func categoryAmount(cats []billing.CategoryAmount, name string) (billing.CategoryAmount, bool) {
	for _, c := range cats {
		if c.Name == name {
			return c, true
		}
	}
	return billing.CategoryAmount{}, false
}

func TestStatement_GroupsByCategoryAndType(t *testing.T) {
	// GIVEN: Revenue and expense transactions across categories in 2025
	// WHEN: Building the 2025 statement
	// THEN: Amounts group per category, sorted by name, and the headline
	//       numbers reconcile

	f := newFixture(t, feb1)
	f.seedTransaction(1, "Assinatura Básico - Ana", "150.00", "2025-01-10", billing.TypeRevenue)
	f.seedTransaction(2, "Assinatura Premium - Bruno", "300.00", "2025-03-05", billing.TypeRevenue)
	f.seedTransaction(3, "Aluguel", "100.00", "2025-02-01", billing.TypeExpense)

	st := buildStatement(t, f, 2025)

	rev, ok := categoryAmount(st.Revenues, "assinatura")
	require.True(t, ok)
	assert.True(t, rev.Amount.Equal(mustDecimal("450.00")))

	assert.True(t, st.GrossRevenue.Equal(mustDecimal("450.00")))
	assert.True(t, st.TotalExpense.Equal(mustDecimal("100.00")))
	assert.True(t, st.NetResult.Equal(mustDecimal("350.00")))
}

func TestStatement_OtherYears_Excluded(t *testing.T) {
	f := newFixture(t, feb1)
	f.seedTransaction(1, "de 2024", "999.00", "2024-12-31", billing.TypeRevenue)
	f.seedTransaction(2, "de 2025", "150.00", "2025-01-10", billing.TypeRevenue)

	st := buildStatement(t, f, 2025)
	assert.True(t, st.GrossRevenue.Equal(mustDecimal("150.00")))
}

func TestStatement_PendingPayables_FoldedIntoExpenses(t *testing.T) {
	// GIVEN: A realized expense plus a still-pending payable due later in
	//        the year
	// WHEN: Building the statement
	// THEN: The pending payable is recognized as an expense in its own
	//       category and month, on an accrual basis

	f := newFixture(t, feb1)
	f.seedTransaction(1, "Aluguel janeiro", "2500.00", "2025-01-05", billing.TypeExpense)
	f.seedPayable(2, "Aluguel março", "aluguel", "2500.00", "2025-03-05", billing.StatusPending)

	st := buildStatement(t, f, 2025)

	folded, ok := categoryAmount(st.Expenses, "aluguel")
	require.True(t, ok)
	assert.True(t, folded.Amount.Equal(mustDecimal("2500.00")))
	assert.True(t, st.TotalExpense.Equal(mustDecimal("5000.00")))

	// Monthly expense: January realized, March pending.
	assert.True(t, st.Monthly.Expense[0].Equal(mustDecimal("2500.00")))
	assert.True(t, st.Monthly.Expense[2].Equal(mustDecimal("2500.00")))
	assert.True(t, st.Monthly.Expense[1].Equal(mustDecimal("0")))
}

func TestStatement_PaidAndOverduePayables_NotFolded(t *testing.T) {
	// Paid payables are already realized transactions; overdue ones are
	// past obligations. Neither is recognized again.

	f := newFixture(t, feb1)
	f.seedPayable(1, "pago", "aluguel", "100.00", "2025-01-10", billing.StatusPaid)
	f.seedPayable(2, "vencido", "aluguel", "200.00", "2025-01-15", billing.StatusOverdue)
	f.seedPayable(3, "pendente", "aluguel", "300.00", "2025-03-01", billing.StatusPending)

	st := buildStatement(t, f, 2025)
	assert.True(t, st.TotalExpense.Equal(mustDecimal("300.00")))
}

func TestStatement_PendingPayable_EmptyCategory_GoesToOther(t *testing.T) {
	f := newFixture(t, feb1)
	f.seedPayable(1, "avulso", "", "100.00", "2025-02-10", billing.StatusPending)

	st := buildStatement(t, f, 2025)
	other, ok := categoryAmount(st.Expenses, billing.CategoryOther)
	require.True(t, ok)
	assert.True(t, other.Amount.Equal(mustDecimal("100.00")))
}

func TestStatement_MonthlySeries_NetPerMonth(t *testing.T) {
	f := newFixture(t, feb1)
	f.seedTransaction(1, "receita jan", "500.00", "2025-01-10", billing.TypeRevenue)
	f.seedTransaction(2, "despesa jan", "200.00", "2025-01-20", billing.TypeExpense)

	st := buildStatement(t, f, 2025)
	assert.True(t, st.Monthly.Revenue[0].Equal(mustDecimal("500.00")))
	assert.True(t, st.Monthly.Expense[0].Equal(mustDecimal("200.00")))
	assert.True(t, st.Monthly.Net[0].Equal(mustDecimal("300.00")))
	assert.True(t, st.Monthly.Net[5].Equal(mustDecimal("0")))
}
