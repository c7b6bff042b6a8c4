/*
Package sqlite provides a SQLite-backed implementation of the Store contract.

PURPOSE:
  Same whole-table load/save semantics as the CSV backend, for
  deployments that want a single database file instead of a data
  directory. Selected with FLEETBOOKS_STORE=sqlite.

KEY TABLES:
  table_schemas: one row per logical table, column list as JSON
  table_rows:    one row per record, cells as a JSON object

WHOLE-TABLE REPLACE:
  Save runs DELETE + INSERT inside one transaction, so a concurrent
  Load sees either the previous table or the new one. This matches the
  atomic-rename behavior of the CSV backend.

WAL MODE:
  The database is opened with WAL so readers do not block the single
  writer and crash recovery is cheap.

USAGE:
  store, err := sqlite.New("./fleetbooks.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - tabular/store.go: interface definition
  - store/csvstore: flat-file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/motorlane/fleetbooks/tabular"
)

// Store implements tabular.Store on a single SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure database: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS table_schemas (
		name    TEXT PRIMARY KEY,
		columns TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS table_rows (
		name  TEXT    NOT NULL,
		pos   INTEGER NOT NULL,
		cells TEXT    NOT NULL,
		PRIMARY KEY (name, pos)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(ctx context.Context, name string) (*tabular.Table, error) {
	var colsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT columns FROM table_schemas WHERE name = ?`, name).Scan(&colsJSON)
	if err == sql.ErrNoRows {
		return tabular.New(name), nil
	}
	if err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}

	var columns []string
	if err := json.Unmarshal([]byte(colsJSON), &columns); err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM table_rows WHERE name = ? ORDER BY pos`, name)
	if err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}
	defer rows.Close()

	t := tabular.New(name, columns...)
	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
		}
		var cells map[string]string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
		}
		row := make(tabular.Row, len(columns))
		for _, col := range columns {
			row[col] = tabular.String(cells[col])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}
	tabular.InferKinds(t)
	return t, nil
}

func (s *Store) Save(ctx context.Context, name string, t *tabular.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	defer tx.Rollback()

	columns := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		columns = append(columns, c.Name)
	}
	colsJSON, err := json.Marshal(columns)
	if err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM table_rows WHERE name = ?`, name); err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO table_schemas (name, columns) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET columns = excluded.columns`,
		name, string(colsJSON)); err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO table_rows (name, pos, cells) VALUES (?, ?, ?)`)
	if err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	defer stmt.Close()

	for pos, row := range t.Rows {
		cells := make(map[string]string, len(columns))
		for _, col := range columns {
			cells[col] = row[col].Raw()
		}
		cellsJSON, err := json.Marshal(cells)
		if err != nil {
			return &tabular.StorageError{Table: name, Op: "save", Err: err}
		}
		if _, err := stmt.ExecContext(ctx, name, pos, string(cellsJSON)); err != nil {
			return &tabular.StorageError{Table: name, Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	return nil
}
