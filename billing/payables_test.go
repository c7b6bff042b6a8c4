package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/fleetbooks/billing"
	"github.com/motorlane/fleetbooks/tabular"
)

func (f *fixture) payables() *billing.Payables {
	return billing.NewPayables(f.cache, f.clock, zerolog.Nop())
}

func (f *fixture) payablesTable(t *testing.T) *tabular.Table {
	t.Helper()
	tbl, err := f.mem.Load(context.Background(), billing.TablePayables)
	require.NoError(t, err)
	return tbl
}

func rentDraft(amount string) billing.PayableDraft {
	return billing.PayableDraft{
		Supplier:    "Imobiliária Silva",
		Description: "Aluguel do galpão",
		Category:    "aluguel",
		Amount:      mustDecimal(amount),
		DueDate:     time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestPayables_Add_CreatesPendingWithNextID(t *testing.T) {
	// GIVEN: An empty payables table
	// WHEN: Adding two payables
	// THEN: They get ids 1 and 2 and start out pending

	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id1, err := p.Add(ctx, rentDraft("2500.00"))
	require.NoError(t, err)
	id2, err := p.Add(ctx, rentDraft("300.00"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	tbl := f.payablesTable(t)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, billing.StatusPending, tbl.Get(0, "status").Raw())
	assert.Equal(t, "aluguel", tbl.Get(0, "category").Raw())
	assert.Equal(t, "2025-02-10", tbl.Get(0, "due_date").Raw())
}

func TestPayables_Add_EmptyCategory_DefaultsToOther(t *testing.T) {
	f := newFixture(t, feb1)

	draft := rentDraft("100.00")
	draft.Category = ""
	_, err := f.payables().Add(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, billing.CategoryOther, f.payablesTable(t).Get(0, "category").Raw())
}

func TestPayables_Update_RewritesPendingFields(t *testing.T) {
	// GIVEN: A pending payable
	// WHEN: Editing its amount, category and due date
	// THEN: The row reflects the new values and the id and status are
	//       untouched

	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id, err := p.Add(ctx, rentDraft("2500.00"))
	require.NoError(t, err)

	edited := rentDraft("2800.00")
	edited.Category = "manutencao"
	edited.DueDate = time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.Update(ctx, id, edited))

	tbl := f.payablesTable(t)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "2800", tbl.Get(0, "amount").Raw())
	assert.Equal(t, "manutencao", tbl.Get(0, "category").Raw())
	assert.Equal(t, "2025-03-05", tbl.Get(0, "due_date").Raw())
	assert.Equal(t, billing.StatusPending, tbl.Get(0, "status").Raw())
	assert.NotEmpty(t, tbl.Get(0, "updated_at").Raw())
}

func TestPayables_Update_Paid_Rejected(t *testing.T) {
	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id, err := p.Add(ctx, rentDraft("100.00"))
	require.NoError(t, err)
	require.NoError(t, p.Pay(ctx, id, "pix"))

	err = p.Update(ctx, id, rentDraft("200.00"))
	require.Error(t, err)
	assert.True(t, tabular.IsInvalidInput(err))
}

func TestPayables_Update_Unknown_NotFound(t *testing.T) {
	f := newFixture(t, feb1)

	err := f.payables().Update(context.Background(), 7, rentDraft("100.00"))
	require.Error(t, err)
	assert.True(t, tabular.IsNotFound(err))
}

func TestPayables_Pay_AppendsOneExpenseTransaction(t *testing.T) {
	// GIVEN: A pending payable for rent (2500.00)
	// WHEN: Paying it via boleto
	// THEN: It flips to paid and one expense transaction appears with the
	//       payable's category and a back-reference to it

	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id, err := p.Add(ctx, rentDraft("2500.00"))
	require.NoError(t, err)
	require.NoError(t, p.Pay(ctx, id, "boleto"))

	tbl := f.payablesTable(t)
	assert.Equal(t, billing.StatusPaid, tbl.Get(0, "status").Raw())
	assert.Equal(t, "boleto", tbl.Get(0, "payment_method").Raw())

	txs := f.transactions(t)
	require.Equal(t, 1, txs.Len())
	assert.Equal(t, billing.TypeExpense, txs.Get(0, "type").Raw())
	assert.Equal(t, "aluguel", txs.Get(0, "category").Raw())
	related, ok := txs.Get(0, "related_id").Int64()
	require.True(t, ok)
	assert.Equal(t, id, related)
}

func TestPayables_Pay_AlreadyPaid_Rejected(t *testing.T) {
	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id, err := p.Add(ctx, rentDraft("100.00"))
	require.NoError(t, err)
	require.NoError(t, p.Pay(ctx, id, "pix"))

	err = p.Pay(ctx, id, "pix")
	require.Error(t, err)
	assert.True(t, tabular.IsInvalidInput(err))
	assert.Equal(t, 1, f.transactions(t).Len())
}

func TestPayables_Pay_Unknown_NotFound(t *testing.T) {
	f := newFixture(t, feb1)

	err := f.payables().Pay(context.Background(), 42, "pix")
	require.Error(t, err)
	assert.True(t, tabular.IsNotFound(err))
}

func TestPayables_Delete_RemovesPending(t *testing.T) {
	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id1, err := p.Add(ctx, rentDraft("100.00"))
	require.NoError(t, err)
	id2, err := p.Add(ctx, rentDraft("200.00"))
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, id1))

	tbl := f.payablesTable(t)
	require.Equal(t, 1, tbl.Len())
	got, ok := tbl.Get(0, "id").Int64()
	require.True(t, ok)
	assert.Equal(t, id2, got)
}

func TestPayables_Delete_Paid_Rejected(t *testing.T) {
	// A paid payable already has a realized transaction behind it and
	// must stay on the books.

	f := newFixture(t, feb1)
	p := f.payables()
	ctx := context.Background()

	id, err := p.Add(ctx, rentDraft("100.00"))
	require.NoError(t, err)
	require.NoError(t, p.Pay(ctx, id, "pix"))

	err = p.Delete(ctx, id)
	require.Error(t, err)
	assert.True(t, tabular.IsInvalidInput(err))
	assert.Equal(t, 1, f.payablesTable(t).Len())
}
