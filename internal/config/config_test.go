package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg, err := NewConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	if cfg.Port() != DefaultHTTPPort {
		t.Errorf("Expected default port %d, got %d", DefaultHTTPPort, cfg.Port())
	}
	if cfg.WatchInterval() != DefaultWatchIntervalMs {
		t.Errorf("Expected default watch interval %d, got %d", DefaultWatchIntervalMs, cfg.WatchInterval())
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg, err := NewConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	cfg.Theme = "tokyo-night"
	cfg.GlamourStyle = "dark"
	cfg.HTTPPort = 9000
	if err := cfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded, err := NewConfig(tempDir)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Theme != "tokyo-night" {
		t.Errorf("Expected theme 'tokyo-night', got '%s'", reloaded.Theme)
	}
	if reloaded.GlamourStyle != "dark" {
		t.Errorf("Expected glamour style 'dark', got '%s'", reloaded.GlamourStyle)
	}
	if reloaded.Port() != 9000 {
		t.Errorf("Expected port 9000, got %d", reloaded.Port())
	}

	if _, err := os.Stat(filepath.Join(tempDir, ".deckfold", "config.json")); err != nil {
		t.Errorf("Expected config file on disk: %v", err)
	}
}

func TestConfigCorruptFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "deckfold-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".deckfold")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := NewConfig(tempDir); err == nil {
		t.Error("Expected error for corrupt config file")
	}
}
