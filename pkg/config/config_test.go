package config

import (
	"os"
	"path/filepath"
	"testing"

	"stagecast/pkg/protocol"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Address == "" {
		t.Error("Default address should not be empty")
	}
	if cfg.WebSocket.ReadLimit != protocol.MaxPayload {
		t.Errorf("Default read limit should be %d, got %d", protocol.MaxPayload, cfg.WebSocket.ReadLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigNoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected sqlite default, got %s", cfg.Database.Type)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadConfig should fail for a missing file")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
address: ":9000"
logging:
  level: debug
database:
  type: mysql
  path: user:pass@/stagecast
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Address != ":9000" {
		t.Errorf("Expected address :9000, got %s", cfg.Address)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Database.Type != "mysql" {
		t.Errorf("Expected mysql, got %s", cfg.Database.Type)
	}
	// Untouched sections keep defaults
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format text, got %s", cfg.Logging.Format)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STAGECAST_ADDR", ":7777")
	t.Setenv("STAGECAST_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Address != ":7777" {
		t.Errorf("Expected env address :7777, got %s", cfg.Address)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected env log level warn, got %s", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.Type = "mongodb"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject unsupported database type")
	}

	cfg = DefaultConfig()
	cfg.Address = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject empty address")
	}

	cfg = DefaultConfig()
	cfg.WebSocket.ReadLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject non-positive read limit")
	}
}
