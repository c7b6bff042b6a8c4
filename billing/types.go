/*
Package billing implements the financial core of the vehicle-subscription
business: reconciliation of receivables from subscriptions, payment
receipt, payable management, and ledger/statement aggregation.

PURPOSE:
  Everything here operates on cached tables obtained through a
  TableSource and an injected clock, so behavior is deterministic under
  test and writes follow the save-then-invalidate contract.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed records for each table (Subscription, Receivable, ...)
  - Wire-level status and type vocabulary (kept in Portuguese, matching
    the durable data files)
  - TableSource: the cache surface the engines depend on

SEE ALSO:
  - reconcile.go: subscription -> receivable reconciliation
  - ledger.go: cash-flow merge and summaries
  - statement.go: yearly income statement
*/
package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorlane/fleetbooks/tabular"
)

// =============================================================================
// TABLE NAMES
// =============================================================================

const (
	TableUsers         = "users"
	TableCustomers     = "customers"
	TableVehicles      = "vehicles"
	TablePlans         = "plans"
	TableSubscriptions = "subscriptions"
	TablePayments      = "payments"
	TableReceivables   = "accounts_receivable"
	TablePayables      = "accounts_payable"
	TableTransactions  = "financial_transactions"
)

// =============================================================================
// WIRE VOCABULARY - Values as they appear in the durable tables
// =============================================================================

const (
	StatusPending = "pendente"
	StatusOverdue = "vencido"
	StatusPaid    = "pago"

	TypeRevenue = "receita"
	TypeExpense = "despesa"

	DirectionIn  = "entrada"
	DirectionOut = "saida"

	LedgerRealized  = "realizado"
	LedgerProjected = "previsto"
	LedgerOverdue   = "vencido"

	CategorySubscription = "assinatura"
	CategoryOther        = "Outros"

	DefaultPaymentMethod = "dinheiro"
)

// Display placeholders for broken references. A subscription pointing at
// a deleted customer or plan must not abort reconciliation.
const (
	MissingCustomer = "Cliente não encontrado"
	MissingPlan     = "Plano não encontrado"
	MissingVehicle  = "Veículo não encontrado"
)

// =============================================================================
// TABLE SOURCE - The cache surface the engines depend on
// =============================================================================

// TableSource is the read/write surface the billing engines use. The
// cache layer implements it; tests may substitute their own.
type TableSource interface {
	Get(ctx context.Context, name string, force bool) (*tabular.Table, error)
	SaveAndInvalidate(ctx context.Context, name string, t *tabular.Table) error
	NextID(ctx context.Context, name string) (int64, error)
}

// =============================================================================
// TYPED RECORDS
// =============================================================================

type Customer struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

type Vehicle struct {
	ID         int64
	CustomerID int64
	Plate      string
	Model      string
	Color      string
}

type Plan struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	DurationDays int64
	Active       bool
}

type Subscription struct {
	ID         int64
	CustomerID int64
	PlanID     int64
	VehicleIDs []int64
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	Status     string
}

// Receivable is one accounts-receivable record. At most one exists per
// subscription; reconciliation enforces this, not storage.
type Receivable struct {
	ID             int64
	SubscriptionID int64
	CustomerID     int64
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	PaymentDate    time.Time // zero until paid
	Status         string
	PaymentMethod  string
	Notes          string
	CreatedAt      string
	UpdatedAt      string
}

type Payable struct {
	ID            int64
	Supplier      string
	Description   string
	Category      string
	Amount        decimal.Decimal
	DueDate       time.Time
	PaymentDate   time.Time // zero until paid
	Status        string
	PaymentMethod string
	Notes         string
	CreatedAt     string
	UpdatedAt     string
}

// Transaction is the realized, immutable record of cash movement.
// Append-only: once written it is never edited.
type Transaction struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    string
	Type        string // TypeRevenue or TypeExpense
	RelatedID   int64  // back-reference, 0 when unrelated
	CreatedAt   string
}

// ReceivableView decorates a receivable for presentation.
type ReceivableView struct {
	Receivable
	CustomerName   string
	DueDateDisplay string
}
