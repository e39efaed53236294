//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-dwsync.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Unresolved-reference policies for bridge and fact loading.
const (
	OnUnresolvedFail = "fail"
	OnUnresolvedSkip = "skip"
)

// Config holds all configuration for pgedge-dwsync.
type Config struct {
	// Source is the connection string of the OLTP database being synced.
	Source string `mapstructure:"source"`

	// Warehouse is the connection string of the analytical database.
	Warehouse string `mapstructure:"warehouse"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Sync holds configuration shared by full-load and incremental.
	Sync SyncConfig `mapstructure:"sync"`

	// Validation holds configuration for the validate subcommand.
	Validation ValidateConfig `mapstructure:"validate"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// SyncConfig holds configuration shared by the two sync modes.
type SyncConfig struct {
	// OnUnresolved selects the policy applied when a bridge or fact row
	// references a dimension natural key with no surrogate key:
	//   fail - abort the run, nothing is committed (default)
	//   skip - omit the row and count it in the run summary
	OnUnresolved string `mapstructure:"on_unresolved"`
}

// ValidateConfig holds configuration for reconciliation checks.
type ValidateConfig struct {
	// Days is the trailing window for fact-level checks.
	Days int `mapstructure:"days"`
}

// SeedConfig holds configuration for demo source database seeding.
type SeedConfig struct {
	// Films is the number of films to generate.
	Films int `mapstructure:"films"`

	// Customers is the number of customers to generate.
	Customers int `mapstructure:"customers"`

	// Days is how far back generated rental activity extends.
	Days int `mapstructure:"days"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Sync: SyncConfig{
			OnUnresolved: OnUnresolvedFail,
		},
		Validation: ValidateConfig{
			Days: 30,
		},
		Seed: SeedConfig{
			Films:     200,
			Customers: 100,
			Days:      90,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-dwsync.yaml
// 3. ~/.config/pgedge-dwsync/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-dwsync")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-dwsync"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source connection string is required")
	}
	if c.Warehouse == "" {
		return fmt.Errorf("warehouse connection string is required")
	}
	return nil
}

// ValidateSync checks configuration required for full-load and incremental.
func (c *Config) ValidateSync() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Sync.OnUnresolved != OnUnresolvedFail && c.Sync.OnUnresolved != OnUnresolvedSkip {
		return fmt.Errorf("sync.on_unresolved must be 'fail' or 'skip'")
	}
	return nil
}

// ValidateCheck checks configuration required for the validate command.
func (c *Config) ValidateCheck() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Validation.Days < 1 {
		return fmt.Errorf("validate.days must be at least 1")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if c.Source == "" {
		return fmt.Errorf("source connection string is required")
	}
	if c.Seed.Films < 1 {
		return fmt.Errorf("seed.films must be at least 1")
	}
	if c.Seed.Customers < 1 {
		return fmt.Errorf("seed.customers must be at least 1")
	}
	if c.Seed.Days < 1 {
		return fmt.Errorf("seed.days must be at least 1")
	}
	return nil
}
