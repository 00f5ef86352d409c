// Package config manages persistent viewer settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds viewer settings stored under the library root.
type Config struct {
	Theme           string `json:"theme,omitempty"`            // lipgloss color theme for the status bar
	GlamourStyle    string `json:"glamour_style,omitempty"`    // glamour style name, "auto" when empty
	HTTPPort        int    `json:"http_port,omitempty"`        // port for the serve command
	WatchIntervalMs int    `json:"watch_interval_ms,omitempty"` // deck file poll interval

	configPath string
}

// DefaultHTTPPort is used when the config does not set one.
const DefaultHTTPPort = 8787

// DefaultWatchIntervalMs is the fallback deck poll interval.
const DefaultWatchIntervalMs = 500

// NewConfig loads the configuration from baseDir, creating the config
// directory when missing. An empty baseDir falls back to ~/.deckfold.
func NewConfig(baseDir string) (*Config, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".deckfold")
	}

	configPath := filepath.Join(baseDir, ".deckfold", "config.json")

	cfg := &Config{configPath: configPath}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := cfg.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// Load reads the configuration from disk
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// Port returns the configured HTTP port or the default.
func (c *Config) Port() int {
	if c.HTTPPort > 0 {
		return c.HTTPPort
	}
	return DefaultHTTPPort
}

// WatchInterval returns the configured poll interval or the default.
func (c *Config) WatchInterval() int {
	if c.WatchIntervalMs > 0 {
		return c.WatchIntervalMs
	}
	return DefaultWatchIntervalMs
}
