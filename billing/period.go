package billing

import "time"

// =============================================================================
// PERIOD - Time boundaries for aggregation
// =============================================================================

// Period is an inclusive [Start, End] time range.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// YearPeriod covers a full calendar year.
func YearPeriod(year int) Period {
	return Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// =============================================================================
// WIRE AND DISPLAY DATE FORMATS
// =============================================================================

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	displayLayout  = "02/01/2006"
	chartLayout    = "02/01"
)

// parseDate accepts the formats found in the durable tables: date-only,
// datetime, or RFC3339.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{dateLayout, dateTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date for display (dd/mm/yyyy).
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(displayLayout)
}
