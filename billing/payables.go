package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/motorlane/fleetbooks/tabular"
)

// =============================================================================
// PAYABLES - Explicitly created obligations (rent, maintenance, fuel...)
// =============================================================================

// Payables manages the accounts-payable lifecycle. Unlike receivables,
// payables are created by explicit user action, never synthesized.
type Payables struct {
	tables TableSource
	clock  tabular.Clock
	log    zerolog.Logger
	mu     sync.Mutex
}

func NewPayables(tables TableSource, clock tabular.Clock, log zerolog.Logger) *Payables {
	return &Payables{tables: tables, clock: clock, log: log}
}

// PayableDraft carries the user-entered fields of a new payable.
type PayableDraft struct {
	Supplier    string
	Description string
	Category    string
	Amount      decimal.Decimal
	DueDate     time.Time
	Notes       string
}

// Add appends a new pending payable and returns its id.
func (p *Payables) Add(ctx context.Context, draft PayableDraft) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return 0, err
	}
	ensureColumns(t, payableColumns())

	id := int64(1)
	if max, ok := t.MaxInt("id"); ok {
		id = max + 1
	}
	category := draft.Category
	if category == "" {
		category = CategoryOther
	}
	now := p.clock.Now()
	pay := Payable{
		ID:          id,
		Supplier:    draft.Supplier,
		Description: draft.Description,
		Category:    category,
		Amount:      draft.Amount,
		DueDate:     draft.DueDate,
		Status:      StatusPending,
		Notes:       draft.Notes,
		CreatedAt:   now.Format(dateTimeLayout),
	}
	t.Append(pay.row())
	if err := p.tables.SaveAndInvalidate(ctx, TablePayables, t); err != nil {
		return 0, err
	}
	p.log.Info().Int64("payable", id).Str("supplier", pay.Supplier).Msg("payable added")
	return id, nil
}

// Update rewrites the user-entered fields of an unpaid payable. Paid
// payables are frozen: their amount already backs a realized
// transaction.
func (p *Payables) Update(ctx context.Context, payableID int64, draft PayableDraft) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return err
	}
	idx, ok := t.FindInt("id", payableID)
	if !ok {
		return &tabular.NotFoundError{Table: TablePayables, ID: payableID}
	}
	row := t.Rows[idx]
	if row["status"].Raw() == StatusPaid {
		return fmt.Errorf("%w: payable %d is paid and cannot be edited", tabular.ErrInvalidInput, payableID)
	}

	category := draft.Category
	if category == "" {
		category = CategoryOther
	}
	row["supplier"] = tabular.String(draft.Supplier)
	row["description"] = tabular.String(draft.Description)
	row["category"] = tabular.String(category)
	row["amount"] = tabular.Decimal(draft.Amount)
	row["due_date"] = dateCell(draft.DueDate)
	row["notes"] = tabular.String(draft.Notes)
	row["updated_at"] = tabular.String(p.clock.Now().Format(dateTimeLayout))

	if err := p.tables.SaveAndInvalidate(ctx, TablePayables, t); err != nil {
		return err
	}
	p.log.Info().Int64("payable", payableID).Msg("payable updated")
	return nil
}

// Pay marks a payable paid and appends exactly one expense transaction
// carrying the payable's category.
func (p *Payables) Pay(ctx context.Context, payableID int64, method string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return err
	}
	idx, ok := t.FindInt("id", payableID)
	if !ok {
		return &tabular.NotFoundError{Table: TablePayables, ID: payableID}
	}
	pay, err := payableFromRow(TablePayables, idx, t.Rows[idx])
	if err != nil {
		return err
	}
	if pay.Status == StatusPaid {
		return fmt.Errorf("%w: payable %d is already paid", tabular.ErrInvalidInput, payableID)
	}
	if method == "" {
		method = DefaultPaymentMethod
	}

	now := p.clock.Now()
	row := t.Rows[idx]
	row["status"] = tabular.String(StatusPaid)
	row["payment_date"] = tabular.String(now.Format(dateLayout))
	row["payment_method"] = tabular.String(method)
	row["updated_at"] = tabular.String(now.Format(dateTimeLayout))

	if err := p.tables.SaveAndInvalidate(ctx, TablePayables, t); err != nil {
		return err
	}

	txT, err := p.tables.Get(ctx, TableTransactions, false)
	if err != nil {
		return err
	}
	ensureColumns(txT, transactionColumns())
	nextID := int64(1)
	if max, ok := txT.MaxInt("id"); ok {
		nextID = max + 1
	}
	category := pay.Category
	if category == "" {
		category = CategoryOther
	}
	tx := Transaction{
		ID:          nextID,
		Description: pay.Description,
		Amount:      pay.Amount,
		Date:        now,
		Category:    category,
		Type:        TypeExpense,
		RelatedID:   pay.ID,
		CreatedAt:   now.Format(dateTimeLayout),
	}
	txT.Append(tx.row())
	if err := p.tables.SaveAndInvalidate(ctx, TableTransactions, txT); err != nil {
		return err
	}

	p.log.Info().
		Int64("payable", payableID).
		Str("method", method).
		Str("amount", pay.Amount.String()).
		Msg("payable paid")
	return nil
}

// Delete removes a payable. Paid payables already have a realized
// transaction behind them and cannot be deleted.
func (p *Payables) Delete(ctx context.Context, payableID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, err := p.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return err
	}
	idx, ok := t.FindInt("id", payableID)
	if !ok {
		return &tabular.NotFoundError{Table: TablePayables, ID: payableID}
	}
	if t.Rows[idx]["status"].Raw() == StatusPaid {
		return fmt.Errorf("%w: payable %d is paid and cannot be deleted", tabular.ErrInvalidInput, payableID)
	}
	t.Rows = append(t.Rows[:idx], t.Rows[idx+1:]...)
	if err := p.tables.SaveAndInvalidate(ctx, TablePayables, t); err != nil {
		return err
	}
	p.log.Info().Int64("payable", payableID).Msg("payable deleted")
	return nil
}
