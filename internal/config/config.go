// Package config centralizes runtime configuration for the hub. It loads a
// JSON configuration file and exposes a process-wide configuration with
// sensible defaults. Tests and development builds will use defaults when the
// file is not present. Production operators should place a JSON file at
// /etc/metabridge/config.json or specify a different path via the CONFIG_FILE
// env var.
package config

import (
	"encoding/json"
	"os"
)

// Config holds configurable options for the hub service.
type Config struct {
	KeyFile         string `json:"key_file"`
	DBFile          string `json:"db_file"`
	EventLogFile    string `json:"event_log_file"`
	Port            int    `json:"port"`
	ChainID         string `json:"chain_id"`
	DocsDir         string `json:"docs_dir"`
	MaxAuditEntries int    `json:"max_audit_entries"`
	MaxEventBuffer  int    `json:"max_event_buffer"`
}

var cfg *Config

// LoadConfig reads a JSON file at path. If the file does not exist or
// cannot be parsed, LoadConfig returns defaults (and no error) so that the
// application can run in development with minimal friction.
func LoadConfig(path string) (*Config, error) {
	// sensible defaults
	def := &Config{
		KeyFile:         "bridge_key.pem",
		DBFile:          "bridge.db",
		EventLogFile:    "events.log",
		Port:            8080,
		ChainID:         "metabridge-hub",
		DocsDir:         "internal/docs",
		MaxAuditEntries: 500,
		MaxEventBuffer:  200,
	}

	// if no file path provided, return defaults
	if path == "" {
		cfg = def
		return cfg, nil
	}

	// read file
	b, err := os.ReadFile(path)
	if err != nil {
		// file missing or unreadable -> use defaults
		cfg = def
		return cfg, nil
	}

	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		// parse error -> use defaults
		cfg = def
		return cfg, nil
	}

	// merge defaults for any zero-value fields
	if c.KeyFile == "" {
		c.KeyFile = def.KeyFile
	}
	if c.DBFile == "" {
		c.DBFile = def.DBFile
	}
	if c.EventLogFile == "" {
		c.EventLogFile = def.EventLogFile
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.ChainID == "" {
		c.ChainID = def.ChainID
	}
	if c.DocsDir == "" {
		c.DocsDir = def.DocsDir
	}
	if c.MaxAuditEntries == 0 {
		c.MaxAuditEntries = def.MaxAuditEntries
	}
	if c.MaxEventBuffer == 0 {
		c.MaxEventBuffer = def.MaxEventBuffer
	}

	cfg = &c
	return cfg, nil
}

// Get returns the loaded configuration. If LoadConfig hasn't been called
// yet, it returns defaults.
func Get() *Config {
	if cfg == nil {
		// initialize with defaults
		LoadConfig("")
	}
	return cfg
}
