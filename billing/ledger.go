/*
ledger.go - Unified cash-flow ledger

PURPOSE:
  Merges three independent tables - realized transactions, unpaid
  receivables, unpaid payables - into one time-ordered ledger with a
  three-way temporal classification, and derives the summary numbers
  the cash-flow view renders.

NO DOUBLE COUNTING:
  A receivable or payable contributes an entry only while unpaid. The
  moment it is paid, its cash effect is represented solely by the
  transaction appended at payment time. A paid obligation therefore
  appears exactly once, as a realized entry.

TOTALS:
  All summary numbers are computed over the unfiltered entry set -
  display filters narrow the listing, never the totals.

SEE ALSO:
  - statement.go: the yearly income statement over the same tables
*/
package billing

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/motorlane/fleetbooks/tabular"
)

// Entry is one transient ledger line. Never persisted.
type Entry struct {
	Date        time.Time
	Description string
	Direction   string // DirectionIn or DirectionOut
	Category    string
	Amount      decimal.Decimal
	Status      string // LedgerRealized, LedgerProjected or LedgerOverdue
}

// Filter narrows the displayed entries. Totals ignore it.
type Filter struct {
	Search    string
	Direction string
	Status    string
}

// Totals are computed over every entry regardless of filters.
type Totals struct {
	RunningBalance   decimal.Decimal // realized inflow - outflow, all time
	MonthInflow      decimal.Decimal // realized, current calendar month
	MonthOutflow     decimal.Decimal
	ProjectedInflow  decimal.Decimal
	ProjectedOutflow decimal.Decimal
	OverdueInflow    decimal.Decimal
	OverdueOutflow   decimal.Decimal
}

// ChartSeries is the trailing-N-day realized series for trend display.
type ChartSeries struct {
	Labels   []string
	Inflows  []decimal.Decimal
	Outflows []decimal.Decimal
	Balances []decimal.Decimal // cumulative within the window
}

// LedgerReport is one page of entries plus the unfiltered aggregates.
type LedgerReport struct {
	Entries    []Entry
	Totals     Totals
	Chart      ChartSeries
	Page       int
	PageSize   int
	Total      int // filtered entry count
	TotalPages int
}

// DefaultPageSize matches the original listing views.
const DefaultPageSize = 15

// DefaultChartDays is the length of the trend window.
const DefaultChartDays = 30

// Aggregator builds ledgers and income statements from cached tables.
type Aggregator struct {
	tables    TableSource
	clock     tabular.Clock
	chartDays int
}

func NewAggregator(tables TableSource, clock tabular.Clock) *Aggregator {
	return &Aggregator{tables: tables, clock: clock, chartDays: DefaultChartDays}
}

// BuildLedger merges the three tables, classifies and sorts every entry
// (descending by date, stable), computes totals and the chart over the
// full set, then applies filters and pagination to the listing.
func (a *Aggregator) BuildLedger(ctx context.Context, f Filter, page, pageSize int) (*LedgerReport, error) {
	entries, err := a.collect(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})

	now := a.clock.Now()
	totals := computeTotals(entries, now)
	chart := a.buildChart(entries, now)

	filtered := applyFilter(entries, f)

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &LedgerReport{
		Entries:    filtered[start:end],
		Totals:     totals,
		Chart:      chart,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// collect builds the unfiltered entry set. Rows with an empty amount
// cell carry no cash effect and are skipped, matching the durable data
// produced by the form layer.
func (a *Aggregator) collect(ctx context.Context) ([]Entry, error) {
	txT, err := a.tables.Get(ctx, TableTransactions, false)
	if err != nil {
		return nil, err
	}
	recvT, err := a.tables.Get(ctx, TableReceivables, false)
	if err != nil {
		return nil, err
	}
	payT, err := a.tables.Get(ctx, TablePayables, false)
	if err != nil {
		return nil, err
	}

	var entries []Entry

	for i, row := range txT.Rows {
		if row["amount"].IsEmpty() {
			continue
		}
		tx, err := transactionFromRow(TableTransactions, i, row)
		if err != nil {
			return nil, err
		}
		direction := DirectionIn
		if tx.Type == TypeExpense {
			direction = DirectionOut
		}
		entries = append(entries, Entry{
			Date:        tx.Date,
			Description: tx.Description,
			Direction:   direction,
			Category:    tx.Category,
			Amount:      tx.Amount,
			Status:      LedgerRealized,
		})
	}

	for i, row := range recvT.Rows {
		if row["amount"].IsEmpty() || row["status"].Raw() == StatusPaid {
			continue
		}
		rec, err := receivableFromRow(TableReceivables, i, row)
		if err != nil {
			return nil, err
		}
		status, suffix := LedgerProjected, " (A receber)"
		if rec.Status == StatusOverdue {
			status, suffix = LedgerOverdue, " (Vencido)"
		}
		entries = append(entries, Entry{
			Date:        rec.DueDate,
			Description: rec.Description + suffix,
			Direction:   DirectionIn,
			Category:    CategorySubscription,
			Amount:      rec.Amount,
			Status:      status,
		})
	}

	for i, row := range payT.Rows {
		if row["amount"].IsEmpty() || row["status"].Raw() == StatusPaid {
			continue
		}
		pay, err := payableFromRow(TablePayables, i, row)
		if err != nil {
			return nil, err
		}
		status, suffix := LedgerProjected, " (A pagar)"
		if pay.Status == StatusOverdue {
			status, suffix = LedgerOverdue, " (Vencido)"
		}
		category := pay.Category
		if category == "" {
			category = CategoryOther
		}
		entries = append(entries, Entry{
			Date:        pay.DueDate,
			Description: pay.Description + suffix,
			Direction:   DirectionOut,
			Category:    category,
			Amount:      pay.Amount,
			Status:      status,
		})
	}

	return entries, nil
}

func computeTotals(entries []Entry, now time.Time) Totals {
	t := Totals{
		RunningBalance:   decimal.Zero,
		MonthInflow:      decimal.Zero,
		MonthOutflow:     decimal.Zero,
		ProjectedInflow:  decimal.Zero,
		ProjectedOutflow: decimal.Zero,
		OverdueInflow:    decimal.Zero,
		OverdueOutflow:   decimal.Zero,
	}
	monthStart := startOfMonth(now)

	for _, e := range entries {
		inMonth := !e.Date.Before(monthStart)
		switch e.Status {
		case LedgerRealized:
			if e.Direction == DirectionIn {
				t.RunningBalance = t.RunningBalance.Add(e.Amount)
				if inMonth {
					t.MonthInflow = t.MonthInflow.Add(e.Amount)
				}
			} else {
				t.RunningBalance = t.RunningBalance.Sub(e.Amount)
				if inMonth {
					t.MonthOutflow = t.MonthOutflow.Add(e.Amount)
				}
			}
		case LedgerProjected:
			if e.Direction == DirectionIn {
				t.ProjectedInflow = t.ProjectedInflow.Add(e.Amount)
			} else {
				t.ProjectedOutflow = t.ProjectedOutflow.Add(e.Amount)
			}
		case LedgerOverdue:
			if e.Direction == DirectionIn {
				t.OverdueInflow = t.OverdueInflow.Add(e.Amount)
			} else {
				t.OverdueOutflow = t.OverdueOutflow.Add(e.Amount)
			}
		}
	}
	return t
}

// buildChart scans only realized entries into per-day buckets over the
// trailing window, with a cumulative balance that starts at zero on the
// window's first day.
func (a *Aggregator) buildChart(entries []Entry, now time.Time) ChartSeries {
	days := a.chartDays
	if days <= 0 {
		days = DefaultChartDays
	}
	chart := ChartSeries{
		Labels:   make([]string, 0, days),
		Inflows:  make([]decimal.Decimal, 0, days),
		Outflows: make([]decimal.Decimal, 0, days),
		Balances: make([]decimal.Decimal, 0, days),
	}

	running := decimal.Zero
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		inflow, outflow := decimal.Zero, decimal.Zero
		for _, e := range entries {
			if e.Status != LedgerRealized || !sameDay(e.Date, day) {
				continue
			}
			if e.Direction == DirectionIn {
				inflow = inflow.Add(e.Amount)
			} else {
				outflow = outflow.Add(e.Amount)
			}
		}
		running = running.Add(inflow).Sub(outflow)
		chart.Labels = append(chart.Labels, day.Format(chartLayout))
		chart.Inflows = append(chart.Inflows, inflow)
		chart.Outflows = append(chart.Outflows, outflow)
		chart.Balances = append(chart.Balances, running)
	}
	return chart
}

func applyFilter(entries []Entry, f Filter) []Entry {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search == "" && f.Direction == "" && f.Status == "" {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Description), search) &&
			!strings.Contains(strings.ToLower(e.Category), search) {
			continue
		}
		if f.Direction != "" && e.Direction != f.Direction {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}
