// Package cli wires the cobra commands that expose the core operations:
// reconciliation, payment receipt, cash flow, income statement, and
// data-directory bootstrap.
package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/motorlane/fleetbooks/cache"
	"github.com/motorlane/fleetbooks/config"
	"github.com/motorlane/fleetbooks/logging"
	"github.com/motorlane/fleetbooks/store/csvstore"
	"github.com/motorlane/fleetbooks/store/sqlite"
	"github.com/motorlane/fleetbooks/tabular"
)

// app bundles the wired components behind every command.
type app struct {
	cfg    config.Config
	cache  *cache.TableCache
	clock  tabular.Clock
	csvDir string // empty when the sqlite backend is selected
	close  func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	}); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	a := &app{cfg: cfg, clock: tabular.SystemClock{}, close: func() error { return nil }}

	var store tabular.Store
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = db
		a.close = db.Close
	case config.StoreCSV:
		cs, err := csvstore.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store = cs
		a.csvDir = cs.Dir()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	a.cache = cache.New(store, a.clock, cfg.CacheTTL, logging.WithComponent("cache"))
	return a, nil
}

func (a *app) Close() error { return a.close() }

// formatCurrency renders an amount as "R$ 1.234,56".
func formatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	out := "R$ " + strings.Join(grouped, ".") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
