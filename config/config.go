// Package config loads application settings from the environment using
// viper. Every variable is prefixed FLEETBOOKS_ and has a working
// default, so a bare invocation runs against ./data.
package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// StoreCSV selects the flat-file backend, StoreSQLite the database.
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Config holds all settings for the application.
type Config struct {
	DataDir    string        `mapstructure:"DATA_DIR"`
	Store      string        `mapstructure:"STORE"`
	SQLitePath string        `mapstructure:"SQLITE_PATH"`
	CacheTTL   time.Duration `mapstructure:"CACHE_TTL"`
	PageSize   int           `mapstructure:"PAGE_SIZE"`
	ChartDays  int           `mapstructure:"CHART_DAYS"`
	Watch      bool          `mapstructure:"WATCH"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	LogOutput string `mapstructure:"LOG_OUTPUT"`
}

// Load reads configuration from FLEETBOOKS_* environment variables.
func Load() (config Config, err error) {
	viper.SetEnvPrefix("FLEETBOOKS")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("STORE", StoreCSV)
	viper.SetDefault("SQLITE_PATH", "./fleetbooks.db")
	viper.SetDefault("CACHE_TTL", "30s")
	viper.SetDefault("PAGE_SIZE", 15)
	viper.SetDefault("CHART_DAYS", 30)
	viper.SetDefault("WATCH", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
	viper.SetDefault("LOG_OUTPUT", "stderr")
	viper.AutomaticEnv()

	// Bind explicitly so the variables appear in Unmarshal
	for _, key := range []string{
		"DATA_DIR", "STORE", "SQLITE_PATH", "CACHE_TTL", "PAGE_SIZE",
		"CHART_DAYS", "WATCH", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
	} {
		_ = viper.BindEnv(key)
	}

	err = viper.Unmarshal(&config)
	return
}
