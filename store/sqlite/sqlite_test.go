package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/fleetbooks/store/sqlite"
	"github.com/motorlane/fleetbooks/tabular"
)

func newTestStore(t *testing.T) *sqlite.Store {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_AbsentTable_LoadsEmpty(t *testing.T) {
	s := newTestStore(t)

	tbl, err := s.Load(context.Background(), "customers")
	require.NoError(t, err)
	assert.Equal(t, "customers", tbl.Name)
	assert.True(t, tbl.IsEmpty())
}

func TestSQLiteStore_RoundTrip_PreservesOrderAndText(t *testing.T) {
	// GIVEN: A table with ordered rows and text cells
	// WHEN: Saving and loading it
	// THEN: Row order and cell text survive byte-for-byte

	s := newTestStore(t)
	ctx := context.Background()

	tbl := tabular.New("accounts_receivable", "id", "description", "amount")
	tbl.Append(tabular.Row{
		"id":          tabular.Int(1),
		"description": tabular.String("Assinatura Básico - Ana"),
		"amount":      tabular.String("150.00"),
	})
	tbl.Append(tabular.Row{
		"id":          tabular.Int(2),
		"description": tabular.String("Assinatura Premium - Bruno"),
		"amount":      tabular.String("300.00"),
	})

	require.NoError(t, s.Save(ctx, "accounts_receivable", tbl))

	got, err := s.Load(ctx, "accounts_receivable")
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "Assinatura Básico - Ana", got.Get(0, "description").Raw())
	assert.Equal(t, "150.00", got.Get(0, "amount").Raw())
	assert.Equal(t, "Assinatura Premium - Bruno", got.Get(1, "description").Raw())
}

func TestSQLiteStore_Save_ReplacesWholeTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	big := tabular.New("tx", "id")
	for i := 1; i <= 4; i++ {
		big.Append(tabular.Row{"id": tabular.Int(int64(i))})
	}
	require.NoError(t, s.Save(ctx, "tx", big))

	small := tabular.New("tx", "id")
	small.Append(tabular.Row{"id": tabular.Int(7)})
	require.NoError(t, s.Save(ctx, "tx", small))

	got, err := s.Load(ctx, "tx")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	id, ok := got.Get(0, "id").Int64()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestSQLiteStore_TablesAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := tabular.New("customers", "id")
	a.Append(tabular.Row{"id": tabular.Int(1)})
	require.NoError(t, s.Save(ctx, "customers", a))

	b := tabular.New("plans", "id")
	b.Append(tabular.Row{"id": tabular.Int(2)})
	b.Append(tabular.Row{"id": tabular.Int(3)})
	require.NoError(t, s.Save(ctx, "plans", b))

	gotA, err := s.Load(ctx, "customers")
	require.NoError(t, err)
	assert.Equal(t, 1, gotA.Len())

	gotB, err := s.Load(ctx, "plans")
	require.NoError(t, err)
	assert.Equal(t, 2, gotB.Len())
}

func TestSQLiteStore_SchemaSurvivesEmptyTable(t *testing.T) {
	// GIVEN: A table saved with columns but zero rows
	// WHEN: Loading it back
	// THEN: The column layout is intact

	s := newTestStore(t)
	ctx := context.Background()

	empty := tabular.New("payments", "id", "amount", "status")
	require.NoError(t, s.Save(ctx, "payments", empty))

	got, err := s.Load(ctx, "payments")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	require.Len(t, got.Columns, 3)
	assert.Equal(t, "id", got.Columns[0].Name)
	assert.Equal(t, "status", got.Columns[2].Name)
}
