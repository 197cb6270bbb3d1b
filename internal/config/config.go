// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// riskportal client.
//
// TOML configuration with sensible defaults, environment variable overrides,
// and validation.
//
// Configuration file location:
//   - ~/.riskportal/config.toml
//   - Built-in defaults otherwise
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete riskportal configuration.
type Config struct {
	// Portal connection settings
	Portal PortalConfig `toml:"portal"`

	// Cache configuration
	Cache CacheConfig `toml:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// PortalConfig contains portal API settings.
type PortalConfig struct {
	// BaseURL is the portal API base URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the retry budget for idempotent requests.
	MaxRetries int `toml:"max_retries"`
}

// CacheConfig contains offline cache settings.
type CacheConfig struct {
	// Enabled toggles the offline resource cache.
	Enabled bool `toml:"enabled"`
	// Path is the SQLite database path (empty = ~/.riskportal/cache.db).
	Path string `toml:"path"`
	// TTLSecs is how long a cached resource stays fresh.
	TTLSecs int `toml:"ttl_secs"`
}

// UIConfig contains TUI settings.
type UIConfig struct {
	// Theme selects the color theme: "auto", "dark", "light".
	Theme string `toml:"theme"`
	// CompactMode reduces vertical padding for small terminals.
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULTS & PATHS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Portal: PortalConfig{
			BaseURL:     "http://localhost:5002",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTLSecs: 300,
		},
		UI: UIConfig{
			Theme: "auto",
		},
	}
}

// ConfigDir returns the riskportal configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".riskportal"), nil
}

// ConfigPath returns the TOML configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides, fills
// defaults and validates. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over the given config.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit path (used by tests and
// the --config flag).
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies RISKPORTAL_* environment variables on top of the
// loaded values. Environment wins over file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RISKPORTAL_URL"); v != "" {
		c.Portal.BaseURL = v
	}
	if v := os.Getenv("RISKPORTAL_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Portal.TimeoutSecs = n
		}
	}
	if v := os.Getenv("RISKPORTAL_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv("RISKPORTAL_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills zero-valued fields that decoding may have left behind.
func (c *Config) SetDefaults() {
	if c.Portal.BaseURL == "" {
		c.Portal.BaseURL = Default().Portal.BaseURL
	}
	if c.Portal.TimeoutSecs <= 0 {
		c.Portal.TimeoutSecs = Default().Portal.TimeoutSecs
	}
	if c.Portal.MaxRetries <= 0 {
		c.Portal.MaxRetries = Default().Portal.MaxRetries
	}
	if c.Cache.TTLSecs <= 0 {
		c.Cache.TTLSecs = Default().Cache.TTLSecs
	}
	if c.Cache.Path == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Cache.Path = filepath.Join(dir, "cache.db")
		}
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Portal.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("portal.base_url %q is not a valid URL", c.Portal.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("portal.base_url scheme %q is not supported", u.Scheme)
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("ui.theme %q is not one of auto, dark, light", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu     sync.RWMutex
	globalConfig *Config
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ReloadGlobal re-reads the configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global config so tests start clean.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
