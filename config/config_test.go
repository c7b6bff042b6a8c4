package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/fleetbooks/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, config.StoreCSV, cfg.Store)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15, cfg.PageSize)
	assert.Equal(t, 30, cfg.ChartDays)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FLEETBOOKS_STORE", config.StoreSQLite)
	t.Setenv("FLEETBOOKS_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("FLEETBOOKS_CACHE_TTL", "5s")
	t.Setenv("FLEETBOOKS_PAGE_SIZE", "25")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/test.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.PageSize)
}
