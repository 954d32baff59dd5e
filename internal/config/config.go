// Package config loads taskline configuration and resolves the project
// timezone.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/yarlson/taskline/internal/dates"
)

// TimezoneEnv is the environment variable that overrides the configured
// project timezone.
const TimezoneEnv = "TASKLINE_TZ"

// DefaultTimezone is the built-in fallback timezone name.
const DefaultTimezone = "UTC"

// Config holds all taskline configuration.
type Config struct {
	Data     DataConfig    `mapstructure:"data"`
	Timezone string        `mapstructure:"timezone"`
	Hooks    HooksConfig   `mapstructure:"hooks"`
	Reports  ReportsConfig `mapstructure:"reports"`
	Undo     UndoConfig    `mapstructure:"undo"`

	// loc is the resolved project timezone, computed once at load time
	// and immutable afterwards.
	loc *time.Location
}

// DataConfig holds data directory settings.
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// HooksConfig holds hook runner settings.
type HooksConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ReportsConfig holds report definition settings.
type ReportsConfig struct {
	Path string `mapstructure:"path"`
}

// UndoConfig holds undo log settings.
type UndoConfig struct {
	// Limit bounds the undo log length; 0 keeps every snapshot.
	Limit int `mapstructure:"limit"`
}

// Location returns the resolved project timezone. UTC if the config was
// constructed without Load.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// LoadWithFile loads configuration from a specific file if provided,
// otherwise falls back to Load with the given directory.
func LoadWithFile(dir, configFile string) (*Config, error) {
	if configFile != "" {
		return LoadFromPath(configFile)
	}
	return Load(dir)
}

// Load loads configuration from taskline.yaml in the given directory.
// If no config file exists, sensible defaults are returned.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigName("taskline")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromPath(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, filepath.Dir(configPath))

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return unmarshal(v)
		}
		return nil, err
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// The project timezone chain: environment override, then the config
	// key, then the built-in default. Unparseable names fall through and
	// UTC is the silent last resort.
	cfg.loc = dates.ResolveLocation(os.Getenv(TimezoneEnv), cfg.Timezone, DefaultTimezone)

	return cfg, nil
}

// setDefaults sets all default values for configuration.
func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("data.dir", filepath.Join(dir, ".taskline"))
	v.SetDefault("timezone", "")
	v.SetDefault("hooks.enabled", true)
	v.SetDefault("reports.path", "")
	v.SetDefault("undo.limit", 0)
}
