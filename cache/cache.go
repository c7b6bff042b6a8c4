/*
Package cache keeps time-boxed in-memory copies of durable tables.

PURPOSE:
  Request handlers read the same handful of tables over and over. The
  cache serves stale-but-fresh-enough copies for a fixed TTL (30s by
  default) and is explicitly invalidated on every write, so the next
  read reloads from durable storage.

CRITICAL INVARIANTS:
  1. One critical section spans check-then-load-then-store, so two
     concurrent callers can never race to populate the same table name
     with two different authoritative copies.
  2. Callers always receive independent clones - no cross-request
     aliasing of rows.
  3. SaveAndInvalidate is the only sanctioned write path. A failed save
     never invalidates: the cache must not forget data that was never
     durably replaced.

STALENESS CONTRACT:
  Within the TTL a read returns the cached copy even if durable storage
  changed underneath. Callers needing read-your-write consistency rely
  on invalidation, not on the TTL.

SEE ALSO:
  - tabular/store.go: the durable layer underneath
  - watch.go: filesystem-driven invalidation for external edits
*/
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/motorlane/fleetbooks/tabular"
)

// DefaultTTL is how long a cached table stays fresh.
const DefaultTTL = 30 * time.Second

// TableCache wraps a Store with a per-name TTL cache and sequence
// allocation. Safe for concurrent use.
type TableCache struct {
	store tabular.Store
	clock tabular.Clock
	ttl   time.Duration
	log   zerolog.Logger

	mu       sync.Mutex
	tables   map[string]*tabular.Table
	loadedAt map[string]time.Time
}

func New(store tabular.Store, clock tabular.Clock, ttl time.Duration, log zerolog.Logger) *TableCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TableCache{
		store:    store,
		clock:    clock,
		ttl:      ttl,
		log:      log,
		tables:   make(map[string]*tabular.Table),
		loadedAt: make(map[string]time.Time),
	}
}

// Get returns a defensive copy of the named table. A cached entry
// younger than the TTL is served as-is unless force is set; otherwise
// the table is reloaded from the store under the same lock that guards
// the entry, so concurrent callers cannot double-populate.
func (c *TableCache) Get(ctx context.Context, name string, force bool) (*tabular.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force {
		if t, ok := c.tables[name]; ok {
			if c.clock.Now().Sub(c.loadedAt[name]) < c.ttl {
				c.log.Debug().Str("table", name).Msg("cache hit")
				return t.Clone(), nil
			}
		}
	}

	t, err := c.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	c.tables[name] = t
	c.loadedAt[name] = c.clock.Now()
	c.log.Debug().Str("table", name).Int("rows", t.Len()).Msg("cache load")
	return t.Clone(), nil
}

// Invalidate drops one cached entry.
func (c *TableCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, name)
	delete(c.loadedAt, name)
	c.log.Debug().Str("table", name).Msg("cache invalidate")
}

// InvalidateAll drops every cached entry.
func (c *TableCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = make(map[string]*tabular.Table)
	c.loadedAt = make(map[string]time.Time)
	c.log.Debug().Msg("cache invalidate all")
}

// SaveAndInvalidate persists the table and then drops its cache entry,
// forcing the next Get to reload durable state. When the save fails the
// entry is left alone and the fault propagates.
func (c *TableCache) SaveAndInvalidate(ctx context.Context, name string, t *tabular.Table) error {
	if err := c.store.Save(ctx, name, t); err != nil {
		return err
	}
	c.Invalidate(name)
	return nil
}

// NextID derives the next identifier for a table: max(id)+1, or 1 when
// the table is empty or the id column is absent or unparseable. The
// read-then-eventually-write sequence is not atomic against storage;
// writers that allocate ids serialize among themselves (see billing).
func (c *TableCache) NextID(ctx context.Context, name string) (int64, error) {
	t, err := c.Get(ctx, name, false)
	if err != nil {
		return 0, err
	}
	max, ok := t.MaxInt("id")
	if !ok {
		return 1, nil
	}
	return max + 1, nil
}
