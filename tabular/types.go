/*
Package tabular provides the core table primitives.

PURPOSE:
  This package contains the in-memory representation of a named table:
  an ordered sequence of rows sharing a column schema. Tables are the
  unit of caching and persistence for the whole system - every domain
  record (customer, subscription, receivable, ...) is a row of one.

KEY CONCEPTS IN THIS FILE (types.go):
  - Value: A single cell, kept as canonical text with typed accessors
  - Kind: The inferred column type (string, integer, float)
  - Column: Name + inferred kind + storage width

DESIGN PRINCIPLES:
  1. Text is canonical: cells round-trip through storage byte-for-byte
  2. Precision: monetary accessors return decimal.Decimal, never float
  3. Inference is metadata: column kinds and widths are a memory
     optimization and never change accessor semantics

SEE ALSO:
  - table.go: Table container and row operations
  - store.go: Persistence interface
  - errors.go: Error taxonomy
*/
package tabular

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Inferred column type
// =============================================================================

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Column describes one field of a table schema. Kind and Bits are filled
// in by InferKinds on load; Bits narrows to 32 when every value fits
// losslessly, mirroring how the durable layer downcasts for memory.
type Column struct {
	Name string
	Kind Kind
	Bits int // 32 or 64 for numeric kinds, 0 for strings
}

// =============================================================================
// VALUE - A single cell
// =============================================================================

// Value is one table cell. The canonical representation is the raw text
// as it appears in durable storage; numeric accessors parse on demand so
// inference metadata can never skew arithmetic.
type Value struct {
	raw string
}

func String(s string) Value { return Value{raw: s} }

func Int(i int64) Value { return Value{raw: strconv.FormatInt(i, 10)} }

func Float(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

func Decimal(d decimal.Decimal) Value { return Value{raw: d.String()} }

func (v Value) Raw() string { return v.raw }

func (v Value) IsEmpty() bool { return strings.TrimSpace(v.raw) == "" }

// Int64 parses the cell as an integer. Cells written by float-typed
// columns ("7.0") are accepted when the fraction is zero, since the
// durable layer may widen id columns that ever held an empty cell.
func (v Value) Int64() (int64, bool) {
	s := strings.TrimSpace(v.raw)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func (v Value) Float64() (float64, bool) {
	s := strings.TrimSpace(v.raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// Decimal parses the cell as an exact decimal amount.
func (v Value) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(v.raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
