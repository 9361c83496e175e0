package config

import (
	"fmt"
	"os"

	"stagecast/pkg/protocol"

	"gopkg.in/yaml.v3"
)

// ServerConfig represents server configuration
type ServerConfig struct {
	Address   string          `yaml:"address"`
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig represents session history storage settings
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite | mysql
	Path string `yaml:"path"` // file path for sqlite, DSN for mysql
}

// WebSocketConfig represents websocket transport settings
type WebSocketConfig struct {
	ReadLimit       int64 `yaml:"read_limit"`
	ReadBufferSize  int   `yaml:"read_buffer_size"`
	WriteBufferSize int   `yaml:"write_buffer_size"`
	SendBufferSize  int   `yaml:"send_buffer_size"`
	PingInterval    int   `yaml:"ping_interval_seconds"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Address: ":4001",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./sessions.db",
		},
		WebSocket: WebSocketConfig{
			ReadLimit:       protocol.MaxPayload,
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			SendBufferSize:  64,
			PingInterval:    30,
		},
	}
}

// LoadConfig loads configuration from a YAML file, falling back to defaults.
// An empty path returns the defaults. Environment variables STAGECAST_ADDR
// and STAGECAST_LOG_LEVEL override both.
func LoadConfig(path string) (*ServerConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if addr := os.Getenv("STAGECAST_ADDR"); addr != "" {
		cfg.Address = addr
	}
	if level := os.Getenv("STAGECAST_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration for invalid values
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	switch c.Database.Type {
	case "", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.WebSocket.ReadLimit <= 0 {
		return fmt.Errorf("websocket read limit must be positive")
	}
	if c.WebSocket.SendBufferSize <= 0 {
		return fmt.Errorf("websocket send buffer size must be positive")
	}
	if c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("websocket ping interval must be positive")
	}
	return nil
}
