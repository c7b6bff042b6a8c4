// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/motorlane/fleetbooks/tabular"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	tables map[string]*tabular.Table
	fail   map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]*tabular.Table),
		fail:   make(map[string]error),
	}
}

// Load returns a clone of the stored table, or an empty table when the
// name has never been saved. Absence is not an error.
func (m *Memory) Load(_ context.Context, name string) (*tabular.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail[name]; err != nil {
		return nil, &tabular.StorageError{Table: name, Op: "load", Err: err}
	}
	t, ok := m.tables[name]
	if !ok {
		return tabular.New(name), nil
	}
	return t.Clone(), nil
}

func (m *Memory) Save(_ context.Context, name string, t *tabular.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail[name]; err != nil {
		return &tabular.StorageError{Table: name, Op: "save", Err: err}
	}
	m.tables[name] = t.Clone()
	return nil
}

// Put seeds a table directly, bypassing any cache in front of the store.
// Tests use it to change durable state "underneath" a cached copy.
func (m *Memory) Put(name string, t *tabular.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = t.Clone()
}

// FailWith makes subsequent Load/Save calls for name return err wrapped
// as a StorageError. Pass nil to heal the table.
func (m *Memory) FailWith(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, name)
		return
	}
	m.fail[name] = err
}
