/*
errors.go - Centralized error types for the tabular core

PURPOSE:
  All core error types in one place. Domain packages wrap these with
  additional context; the boundary layer decides presentation.

ERROR CATEGORIES:
  1. Lookup errors - id misses on receivables, payables, subscriptions
  2. Storage errors - durable tables that cannot be read or written
  3. Input errors - malformed cells reaching the core
  4. Constraint errors - a second receivable for one subscription

The single sanctioned degradation is "table absent": a Store returns an
empty table with no error, so first runs need no pre-provisioning. Every
other storage fault propagates.

USAGE:
  if tabular.IsNotFound(err) { ... }
  var fe *tabular.FieldError
  if errors.As(err, &fe) { ... }
*/
package tabular

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an id lookup misses.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable is returned when a durable table cannot be
	// read or written. Table absence is NOT this error.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidInput is returned when a cell that should have been
	// validated upstream does not parse (amount, date, id).
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateReceivable is returned when a table presents two
	// receivables for one subscription. Reconciliation never creates
	// this state; it is guarded against corrupted data.
	ErrDuplicateReceivable = errors.New("duplicate receivable for subscription")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which record was missing from which table.
type NotFoundError struct {
	Table string
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id %d not found", e.Table, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageError wraps a backend failure with the table and operation.
type StorageError struct {
	Table string
	Op    string // "load" or "save"
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorageUnavailable }

// FieldError reports a cell that failed typed decoding.
type FieldError struct {
	Table  string
	Column string
	Index  int // row index within the table
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s row %d: column %q %s", e.Table, e.Index, e.Column, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// DuplicateReceivableError pinpoints the subscription with two rows.
type DuplicateReceivableError struct {
	SubscriptionID int64
}

func (e *DuplicateReceivableError) Error() string {
	return fmt.Sprintf("subscription %d has more than one receivable", e.SubscriptionID)
}

func (e *DuplicateReceivableError) Unwrap() error { return ErrDuplicateReceivable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsStorageFault reports whether the error came from the durable layer.
func IsStorageFault(err error) bool { return errors.Is(err, ErrStorageUnavailable) }
