/*
reconcile.go - Subscription to receivable reconciliation

PURPOSE:
  Guarantees a 1:1 mapping between subscriptions and accounts-receivable
  records. The first time a subscription is observed without a matching
  receivable, one is synthesized; existing receivables are presented
  unmodified, whatever their state. Running the pass twice over an
  unchanged subscription table changes nothing.

CRITICAL INVARIANTS:
  1. At most one receivable per subscription_id, ever.
  2. Synthesized status is derived from due date vs the injected clock:
     past due -> overdue, otherwise pending.
  3. One save per pass, not per record, followed by invalidation.
  4. A subscription referencing a deleted customer or plan is presented
     with a placeholder name and never aborts the pass.

WRITE SERIALIZATION:
  The engine-level mutex is held across the whole read-synthesize-save
  pass and across payment receipt, so id allocation within this process
  cannot race with itself. Cross-process writes remain single-writer by
  deployment convention.

SEE ALSO:
  - payables.go: the payable lifecycle, sharing the payment idiom
  - ledger.go: where unpaid receivables surface as projected entries
*/
package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/motorlane/fleetbooks/tabular"
)

// Reconciler synthesizes missing receivables and records payments.
type Reconciler struct {
	tables TableSource
	clock  tabular.Clock
	log    zerolog.Logger
	mu     sync.Mutex
}

func NewReconciler(tables TableSource, clock tabular.Clock, log zerolog.Logger) *Reconciler {
	return &Reconciler{tables: tables, clock: clock, log: log}
}

// ReconcileReceivables runs one full pass over the subscription table
// and returns every receivable, decorated for display, in subscription
// order. Newly synthesized records are persisted once at the end of the
// pass.
func (r *Reconciler) ReconcileReceivables(ctx context.Context) ([]ReceivableView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subsT, err := r.tables.Get(ctx, TableSubscriptions, false)
	if err != nil {
		return nil, err
	}
	custT, err := r.tables.Get(ctx, TableCustomers, false)
	if err != nil {
		return nil, err
	}
	plansT, err := r.tables.Get(ctx, TablePlans, false)
	if err != nil {
		return nil, err
	}
	vehT, err := r.tables.Get(ctx, TableVehicles, false)
	if err != nil {
		return nil, err
	}
	recvT, err := r.tables.Get(ctx, TableReceivables, false)
	if err != nil {
		return nil, err
	}

	subs, err := decodeSubscriptions(subsT)
	if err != nil {
		return nil, err
	}
	customers := decodeCustomers(custT)
	plans := decodePlans(plansT)
	vehicles := decodeVehicles(vehT)

	ensureColumns(recvT, receivableColumns())

	// Existing receivables indexed by subscription. Two rows for one
	// subscription means the table was corrupted outside this engine.
	existing := make(map[int64]int, recvT.Len())
	for i, row := range recvT.Rows {
		subID, ok := row["subscription_id"].Int64()
		if !ok {
			continue
		}
		if _, dup := existing[subID]; dup {
			return nil, &tabular.DuplicateReceivableError{SubscriptionID: subID}
		}
		existing[subID] = i
	}

	// Running id counter seeded once from the current max, so the pass
	// never reloads the table mid-loop.
	nextID := int64(1)
	if max, ok := recvT.MaxInt("id"); ok {
		nextID = max + 1
	}

	now := r.clock.Now()
	views := make([]ReceivableView, 0, len(subs))
	created := 0

	for _, sub := range subs {
		customerName := MissingCustomer
		if c, ok := customers[sub.CustomerID]; ok {
			customerName = c.Name
		}

		if idx, ok := existing[sub.ID]; ok {
			rec, err := receivableFromRow(TableReceivables, idx, recvT.Rows[idx])
			if err != nil {
				return nil, err
			}
			views = append(views, ReceivableView{
				Receivable:     rec,
				CustomerName:   customerName,
				DueDateDisplay: FormatDate(rec.DueDate),
			})
			continue
		}

		planName := MissingPlan
		if p, ok := plans[sub.PlanID]; ok {
			planName = p.Name
		}

		status := StatusPending
		if sub.EndDate.Before(now) {
			status = StatusOverdue
		}

		rec := Receivable{
			ID:             nextID,
			SubscriptionID: sub.ID,
			CustomerID:     sub.CustomerID,
			Description:    fmt.Sprintf("Assinatura %s - %s - %s", planName, customerName, vehicleText(sub.VehicleIDs, vehicles)),
			Amount:         sub.Amount,
			DueDate:        sub.EndDate,
			Status:         status,
			Notes:          fmt.Sprintf("Gerado automaticamente da assinatura #%d", sub.ID),
			CreatedAt:      now.Format(dateTimeLayout),
		}
		nextID++
		created++

		recvT.Append(rec.row())
		existing[sub.ID] = len(recvT.Rows) - 1

		views = append(views, ReceivableView{
			Receivable:     rec,
			CustomerName:   customerName,
			DueDateDisplay: FormatDate(rec.DueDate),
		})
	}

	if created > 0 {
		if err := r.tables.SaveAndInvalidate(ctx, TableReceivables, recvT); err != nil {
			return nil, err
		}
		r.log.Info().Int("created", created).Msg("synthesized receivables")
	}
	return views, nil
}

func vehicleText(ids []int64, vehicles map[int64]Vehicle) string {
	var models []string
	for _, id := range ids {
		if v, ok := vehicles[id]; ok {
			models = append(models, v.Model)
		}
	}
	if len(models) == 0 {
		return MissingVehicle
	}
	return strings.Join(models, ", ")
}

// ReceivePayment marks a receivable paid and appends exactly one revenue
// transaction for it. Paid is terminal: receiving a payment twice fails
// with ErrInvalidInput. The two writes are not atomic with respect to
// each other; the transaction append happens only after the receivable
// update was durably saved.
func (r *Reconciler) ReceivePayment(ctx context.Context, receivableID int64, method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recvT, err := r.tables.Get(ctx, TableReceivables, false)
	if err != nil {
		return err
	}
	idx, ok := recvT.FindInt("id", receivableID)
	if !ok {
		return &tabular.NotFoundError{Table: TableReceivables, ID: receivableID}
	}
	rec, err := receivableFromRow(TableReceivables, idx, recvT.Rows[idx])
	if err != nil {
		return err
	}
	if rec.Status == StatusPaid {
		return fmt.Errorf("%w: receivable %d is already paid", tabular.ErrInvalidInput, receivableID)
	}
	if method == "" {
		method = DefaultPaymentMethod
	}

	now := r.clock.Now()
	row := recvT.Rows[idx]
	row["status"] = tabular.String(StatusPaid)
	row["payment_date"] = tabular.String(now.Format(dateLayout))
	row["payment_method"] = tabular.String(method)
	row["updated_at"] = tabular.String(now.Format(dateTimeLayout))

	if err := r.tables.SaveAndInvalidate(ctx, TableReceivables, recvT); err != nil {
		return err
	}

	txT, err := r.tables.Get(ctx, TableTransactions, false)
	if err != nil {
		return err
	}
	ensureColumns(txT, transactionColumns())
	nextID := int64(1)
	if max, ok := txT.MaxInt("id"); ok {
		nextID = max + 1
	}
	tx := Transaction{
		ID:          nextID,
		Description: rec.Description,
		Amount:      rec.Amount,
		Date:        now,
		Category:    CategorySubscription,
		Type:        TypeRevenue,
		RelatedID:   rec.SubscriptionID,
		CreatedAt:   now.Format(dateTimeLayout),
	}
	txT.Append(tx.row())
	if err := r.tables.SaveAndInvalidate(ctx, TableTransactions, txT); err != nil {
		return err
	}

	r.log.Info().
		Int64("receivable", receivableID).
		Str("method", method).
		Str("amount", rec.Amount.String()).
		Msg("payment received")
	return nil
}
