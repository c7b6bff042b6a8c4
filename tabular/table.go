package tabular

import (
	"math"
	"sort"
	"strconv"
)

// =============================================================================
// TABLE - Ordered rows sharing a column schema
// =============================================================================

// Row maps column names to cell values. Absent keys read as empty cells.
type Row map[string]Value

// Table is an ordered collection of same-schema rows. It is a plain
// value container: callers that share a table across goroutines must
// hand out Clone()s, which the cache layer does.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

func New(name string, columns ...string) *Table {
	t := &Table{Name: name}
	for _, c := range columns {
		t.Columns = append(t.Columns, Column{Name: c})
	}
	return t
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) IsEmpty() bool { return len(t.Rows) == 0 }

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the schema if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, Column{Name: name})
	}
}

// Append adds a row, extending the schema with any unknown keys so the
// row survives a save/load round trip. New columns are added in sorted
// order to keep the schema deterministic.
func (t *Table) Append(r Row) {
	var missing []string
	for k := range r {
		if !t.HasColumn(k) {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	for _, k := range missing {
		t.Columns = append(t.Columns, Column{Name: k})
	}
	t.Rows = append(t.Rows, r)
}

// Get returns the cell at (row index, column name). Missing columns read
// as empty values, matching how sparse rows behave in flat files.
func (t *Table) Get(i int, col string) Value {
	if i < 0 || i >= len(t.Rows) {
		return Value{}
	}
	return t.Rows[i][col]
}

// FindInt returns the index of the first row whose col parses to v.
func (t *Table) FindInt(col string, v int64) (int, bool) {
	for i, r := range t.Rows {
		if got, ok := r[col].Int64(); ok && got == v {
			return i, true
		}
	}
	return -1, false
}

// MaxInt returns the maximum parseable integer in col. Rows whose cell
// does not parse are skipped; ok is false when no cell parsed at all.
func (t *Table) MaxInt(col string) (int64, bool) {
	var max int64
	found := false
	for _, r := range t.Rows {
		if v, ok := r[col].Int64(); ok {
			if !found || v > max {
				max = v
			}
			found = true
		}
	}
	return max, found
}

// Clone returns a deep, independent copy. The cache layer hands clones
// to every caller so no two requests alias the same rows.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Name: t.Name}
	out.Columns = append([]Column(nil), t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}

// =============================================================================
// KIND INFERENCE - Narrow columns to the smallest lossless representation
// =============================================================================

// InferKinds classifies each column from its populated cells and narrows
// numeric widths when every value fits 32 bits without loss. This is
// purely descriptive: accessors keep parsing the canonical text, so
// comparison and arithmetic semantics are unchanged.
func InferKinds(t *Table) {
	for ci := range t.Columns {
		col := &t.Columns[ci]
		col.Kind = KindString
		col.Bits = 0

		allInt, allFloat, seen := true, true, false
		fitsInt32, fitsFloat32 := true, true
		for _, r := range t.Rows {
			cell := r[col.Name]
			if cell.IsEmpty() {
				continue
			}
			seen = true
			s := cell.Raw()
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			} else if _, err := strconv.ParseInt(s, 10, 32); err != nil {
				fitsInt32 = false
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				allFloat = false
			} else if float64(float32(f)) != f || math.IsInf(float64(float32(f)), 0) {
				fitsFloat32 = false
			}
		}
		if !seen {
			continue
		}
		switch {
		case allInt:
			col.Kind = KindInt
			col.Bits = 64
			if fitsInt32 {
				col.Bits = 32
			}
		case allFloat:
			col.Kind = KindFloat
			col.Bits = 64
			if fitsFloat32 {
				col.Bits = 32
			}
		}
	}
}
