/*
Package csvstore persists tables as CSV flat files, one file per table.

PURPOSE:
  The primary durable backend. Each table named "customers" lives in
  <dir>/customers.csv with a header row naming the columns.

ABSENCE CONTRACT:
  A missing file loads as an empty table with no error, enabling first
  runs against an empty data directory.

ATOMIC SAVES:
  Save writes the full table to a temp file in the same directory and
  renames it over the target, so a concurrent reader sees either the
  old table or the new one, never a torn file.

TYPE NARROWING:
  After load, column kinds are inferred and numeric widths narrowed to
  32 bits when lossless. This mirrors the memory optimization of the
  durable layer it replaces and never changes accessor semantics.

SEE ALSO:
  - tabular/store.go: the Store contract
  - cache: TTL caching and invalidation in front of this store
*/
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/motorlane/fleetbooks/tabular"
)

const fileExt = ".csv"

// Store reads and writes CSV files under a single data directory.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &tabular.StorageError{Table: dir, Op: "load", Err: err}
	}
	return &Store{dir: dir}, nil
}

// Path returns the file backing a table name. The cache watcher uses it
// to map filesystem events back to table names.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// TableName maps a file path inside the data directory back to a table
// name, or "" when the path is not a table file.
func TableName(path string) string {
	base := filepath.Base(path)
	if filepath.Ext(base) != fileExt {
		return ""
	}
	return base[:len(base)-len(fileExt)]
}

func (s *Store) Load(_ context.Context, name string) (*tabular.Table, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return tabular.New(name), nil
		}
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}
	if len(records) == 0 {
		return tabular.New(name), nil
	}

	t := tabular.New(name, records[0]...)
	for _, rec := range records[1:] {
		row := make(tabular.Row, len(records[0]))
		for i, col := range records[0] {
			if i < len(rec) {
				row[col] = tabular.String(rec[i])
			} else {
				row[col] = tabular.String("")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	tabular.InferKinds(t)
	return t, nil
}

func (s *Store) Save(_ context.Context, name string, t *tabular.Table) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	header := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		tmp.Close()
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	rec := make([]string, len(header))
	for _, row := range t.Rows {
		for i, col := range header {
			rec[i] = row[col].Raw()
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return &tabular.StorageError{Table: name, Op: "save", Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
