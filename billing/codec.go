package billing

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorlane/fleetbooks/tabular"
)

// =============================================================================
// ROW READER - Schema-checked decoding of table rows
// =============================================================================

// rowReader accumulates the first decode failure so call sites read a
// whole record without per-field error plumbing. Malformed cells become
// FieldError (ErrInvalidInput), not panics: the core trusts upstream
// validation but fails typed when it is let down.
type rowReader struct {
	table string
	index int
	row   tabular.Row
	err   error
}

func (r *rowReader) fail(col, reason string) {
	if r.err == nil {
		r.err = &tabular.FieldError{Table: r.table, Column: col, Index: r.index, Reason: reason}
	}
}

func (r *rowReader) intval(col string) int64 {
	v, ok := r.row[col].Int64()
	if !ok {
		r.fail(col, "is not an integer")
	}
	return v
}

// optInt returns 0 for empty cells and fails only on malformed ones.
func (r *rowReader) optInt(col string) int64 {
	cell := r.row[col]
	if cell.IsEmpty() {
		return 0
	}
	return r.intval(col)
}

func (r *rowReader) text(col string) string {
	return r.row[col].Raw()
}

func (r *rowReader) money(col string) decimal.Decimal {
	d, ok := r.row[col].Decimal()
	if !ok {
		r.fail(col, "is not a monetary amount")
	}
	return d
}

// optMoney returns zero for empty cells and fails only on malformed ones.
func (r *rowReader) optMoney(col string) decimal.Decimal {
	if r.row[col].IsEmpty() {
		return decimal.Zero
	}
	return r.money(col)
}

func (r *rowReader) date(col string) time.Time {
	t, ok := parseDate(strings.TrimSpace(r.row[col].Raw()))
	if !ok {
		r.fail(col, "is not a date")
	}
	return t
}

func (r *rowReader) optDate(col string) time.Time {
	if r.row[col].IsEmpty() {
		return time.Time{}
	}
	return r.date(col)
}

// =============================================================================
// REFERENCE TABLES - Tolerant lookup maps
// =============================================================================

// Reference decoding is deliberately lenient: a row with an unparseable
// id cannot be referenced, so it is skipped rather than failing the
// caller's whole pass.

func decodeCustomers(t *tabular.Table) map[int64]Customer {
	out := make(map[int64]Customer, t.Len())
	for _, row := range t.Rows {
		id, ok := row["id"].Int64()
		if !ok {
			continue
		}
		out[id] = Customer{
			ID:    id,
			Name:  row["name"].Raw(),
			Email: row["email"].Raw(),
			Phone: row["phone"].Raw(),
		}
	}
	return out
}

func decodeVehicles(t *tabular.Table) map[int64]Vehicle {
	out := make(map[int64]Vehicle, t.Len())
	for _, row := range t.Rows {
		id, ok := row["id"].Int64()
		if !ok {
			continue
		}
		customerID, _ := row["customer_id"].Int64()
		out[id] = Vehicle{
			ID:         id,
			CustomerID: customerID,
			Plate:      row["plate"].Raw(),
			Model:      row["model"].Raw(),
			Color:      row["color"].Raw(),
		}
	}
	return out
}

func decodePlans(t *tabular.Table) map[int64]Plan {
	out := make(map[int64]Plan, t.Len())
	for _, row := range t.Rows {
		id, ok := row["id"].Int64()
		if !ok {
			continue
		}
		price, _ := row["price"].Decimal()
		duration, _ := row["duration_days"].Int64()
		out[id] = Plan{
			ID:           id,
			Name:         row["name"].Raw(),
			Price:        price,
			DurationDays: duration,
			Active:       row["is_active"].Raw() != "False" && row["is_active"].Raw() != "false" && row["is_active"].Raw() != "0",
		}
	}
	return out
}

// =============================================================================
// SUBSCRIPTIONS - Strict decoding
// =============================================================================

func decodeSubscriptions(t *tabular.Table) ([]Subscription, error) {
	out := make([]Subscription, 0, t.Len())
	for i, row := range t.Rows {
		r := &rowReader{table: t.Name, index: i, row: row}
		sub := Subscription{
			ID:         r.intval("id"),
			CustomerID: r.intval("customer_id"),
			PlanID:     r.intval("plan_id"),
			Amount:     r.money("amount"),
			StartDate:  r.optDate("start_date"),
			EndDate:    r.date("end_date"),
			Status:     r.text("status"),
		}
		sub.VehicleIDs = vehicleIDs(row)
		if r.err != nil {
			return nil, r.err
		}
		out = append(out, sub)
	}
	return out, nil
}

// vehicleIDs reads the vehicle reference cell, which holds either a
// single id ("vehicle_id") or a comma-separated set ("vehicle_ids").
func vehicleIDs(row tabular.Row) []int64 {
	cell := row["vehicle_ids"]
	if cell.IsEmpty() {
		cell = row["vehicle_id"]
	}
	if cell.IsEmpty() {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(cell.Raw(), ",") {
		v := tabular.String(strings.TrimSpace(part))
		if id, ok := v.Int64(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// =============================================================================
// FINANCIAL RECORDS
// =============================================================================

func receivableFromRow(table string, index int, row tabular.Row) (Receivable, error) {
	r := &rowReader{table: table, index: index, row: row}
	rec := Receivable{
		ID:             r.intval("id"),
		SubscriptionID: r.intval("subscription_id"),
		CustomerID:     r.optInt("customer_id"),
		Description:    r.text("description"),
		Amount:         r.optMoney("amount"),
		DueDate:        r.date("due_date"),
		PaymentDate:    r.optDate("payment_date"),
		Status:         r.text("status"),
		PaymentMethod:  r.text("payment_method"),
		Notes:          r.text("notes"),
		CreatedAt:      r.text("created_at"),
		UpdatedAt:      r.text("updated_at"),
	}
	return rec, r.err
}

func payableFromRow(table string, index int, row tabular.Row) (Payable, error) {
	r := &rowReader{table: table, index: index, row: row}
	p := Payable{
		ID:            r.intval("id"),
		Supplier:      r.text("supplier"),
		Description:   r.text("description"),
		Category:      r.text("category"),
		Amount:        r.optMoney("amount"),
		DueDate:       r.date("due_date"),
		PaymentDate:   r.optDate("payment_date"),
		Status:        r.text("status"),
		PaymentMethod: r.text("payment_method"),
		Notes:         r.text("notes"),
		CreatedAt:     r.text("created_at"),
		UpdatedAt:     r.text("updated_at"),
	}
	return p, r.err
}

func transactionFromRow(table string, index int, row tabular.Row) (Transaction, error) {
	r := &rowReader{table: table, index: index, row: row}
	tx := Transaction{
		ID:          r.intval("id"),
		Description: r.text("description"),
		Amount:      r.optMoney("amount"),
		Date:        r.date("date"),
		Category:    r.text("category"),
		Type:        r.text("type"),
		RelatedID:   r.optInt("related_id"),
		CreatedAt:   r.text("created_at"),
	}
	return tx, r.err
}

// =============================================================================
// ENCODING - Struct to row
// =============================================================================

func receivableColumns() []string {
	return []string{
		"id", "subscription_id", "customer_id", "description", "amount",
		"due_date", "payment_date", "status", "payment_method", "notes",
		"created_at", "updated_at",
	}
}

func payableColumns() []string {
	return []string{
		"id", "supplier", "description", "category", "amount", "due_date",
		"payment_date", "status", "payment_method", "notes", "created_at",
		"updated_at",
	}
}

func transactionColumns() []string {
	return []string{
		"id", "description", "amount", "date", "category", "type",
		"related_id", "created_at",
	}
}

func dateCell(t time.Time) tabular.Value {
	if t.IsZero() {
		return tabular.String("")
	}
	return tabular.String(t.Format(dateLayout))
}

func (rec Receivable) row() tabular.Row {
	relatedCustomer := tabular.String("")
	if rec.CustomerID != 0 {
		relatedCustomer = tabular.Int(rec.CustomerID)
	}
	return tabular.Row{
		"id":              tabular.Int(rec.ID),
		"subscription_id": tabular.Int(rec.SubscriptionID),
		"customer_id":     relatedCustomer,
		"description":     tabular.String(rec.Description),
		"amount":          tabular.Decimal(rec.Amount),
		"due_date":        dateCell(rec.DueDate),
		"payment_date":    dateCell(rec.PaymentDate),
		"status":          tabular.String(rec.Status),
		"payment_method":  tabular.String(rec.PaymentMethod),
		"notes":           tabular.String(rec.Notes),
		"created_at":      tabular.String(rec.CreatedAt),
		"updated_at":      tabular.String(rec.UpdatedAt),
	}
}

func (p Payable) row() tabular.Row {
	return tabular.Row{
		"id":             tabular.Int(p.ID),
		"supplier":       tabular.String(p.Supplier),
		"description":    tabular.String(p.Description),
		"category":       tabular.String(p.Category),
		"amount":         tabular.Decimal(p.Amount),
		"due_date":       dateCell(p.DueDate),
		"payment_date":   dateCell(p.PaymentDate),
		"status":         tabular.String(p.Status),
		"payment_method": tabular.String(p.PaymentMethod),
		"notes":          tabular.String(p.Notes),
		"created_at":     tabular.String(p.CreatedAt),
		"updated_at":     tabular.String(p.UpdatedAt),
	}
}

func (tx Transaction) row() tabular.Row {
	related := tabular.String("")
	if tx.RelatedID != 0 {
		related = tabular.Int(tx.RelatedID)
	}
	return tabular.Row{
		"id":          tabular.Int(tx.ID),
		"description": tabular.String(tx.Description),
		"amount":      tabular.Decimal(tx.Amount),
		"date":        dateCell(tx.Date),
		"category":    tabular.String(tx.Category),
		"type":        tabular.String(tx.Type),
		"related_id":  related,
		"created_at":  tabular.String(tx.CreatedAt),
	}
}

func ensureColumns(t *tabular.Table, columns []string) {
	for _, c := range columns {
		t.AddColumn(c)
	}
}

// =============================================================================
// TABLE BOOTSTRAP SCHEMAS
// =============================================================================

// Schemas lists every table the system touches with its column layout,
// used to provision an empty data directory on first run.
func Schemas() map[string][]string {
	return map[string][]string{
		TableUsers:         {"id", "username", "password_hash", "role", "name", "created_at", "updated_at"},
		TableCustomers:     {"id", "name", "email", "phone", "cpf", "address", "created_at", "updated_at"},
		TableVehicles:      {"id", "customer_id", "plate", "model", "color", "created_at"},
		TablePlans:         {"id", "name", "description", "price", "duration_days", "is_active", "created_at", "updated_at"},
		TableSubscriptions: {"id", "customer_id", "vehicle_id", "plan_id", "amount", "start_date", "end_date", "status", "created_at"},
		TablePayments:      {"id", "subscription_id", "amount", "payment_date", "payment_method", "status", "created_at"},
		TableReceivables:   receivableColumns(),
		TablePayables:      payableColumns(),
		TableTransactions:  transactionColumns(),
	}
}

// SchemaNames returns the bootstrap table names in stable order.
func SchemaNames() []string {
	schemas := Schemas()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
