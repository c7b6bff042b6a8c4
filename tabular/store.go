/*
store.go - Persistence interface for tables

PURPOSE:
  Defines the interface between the cache layer and durable storage.
  A Store loads and saves whole tables by name. Different
  implementations back the same contract with CSV flat files, SQLite,
  or memory.

ABSENCE CONTRACT:
  Load of a table that does not exist yet returns an empty table and no
  error. Absence is a legitimate first-run state, not a fault. Every
  other failure is reported as a StorageError.

WHOLE-TABLE WRITES:
  Save replaces the prior contents atomically from the caller's
  perspective - a reader never observes a partially written table.

IMPLEMENTATIONS:
  - store/csvstore: CSV files, the primary durable backend
  - store/sqlite:   SQLite with the same whole-table semantics
  - tabular/store:  In-memory, for tests

SEE ALSO:
  - cache: the only sanctioned write path for cached tables
*/
package tabular

import "context"

// Store handles whole-table persistence keyed by table name.
type Store interface {
	// Load reads the durable table into memory. A table that does not
	// exist yet comes back empty with a nil error.
	Load(ctx context.Context, name string) (*Table, error)

	// Save replaces the durable table with t. No partially written
	// state is ever visible to a concurrent Load.
	Save(ctx context.Context, name string, t *Table) error
}
