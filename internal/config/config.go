// Package config provides configuration loading and structs for the BuildBot server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Model   ModelConfig   `yaml:"model"`
	Search  SearchConfig  `yaml:"search"`
	Audit   AuditConfig   `yaml:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds the catalog directory and hot-reload settings.
type CatalogConfig struct {
	Dir   string `yaml:"dir"`
	Watch *bool  `yaml:"watch"`
}

// WatchOrDefault returns whether to watch the catalog directory for changes;
// defaults to true when unset.
func (c *CatalogConfig) WatchOrDefault() bool {
	if c.Watch != nil {
		return *c.Watch
	}
	return true
}

// ModelConfig holds generative-model settings for the advisory flow.
type ModelConfig struct {
	Name           string  `yaml:"name"`
	DefaultBudget  float64 `yaml:"default_budget"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxAttempts    int     `yaml:"max_attempts"`
	RetryDelayMs   int     `yaml:"retry_delay_ms"`
}

// Timeout returns the per-call model timeout as a duration.
func (m *ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base delay between model call attempts.
func (m *ModelConfig) RetryDelay() time.Duration {
	return time.Duration(m.RetryDelayMs) * time.Millisecond
}

// SearchConfig holds part-search limits.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// AuditConfig holds the audit trail database path.
type AuditConfig struct {
	DatabasePath string `yaml:"database_path"`
	RawPrefixLen int    `yaml:"raw_prefix_len"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.Dir = expandPath(cfg.Catalog.Dir, configDir)
	cfg.Audit.DatabasePath = expandPath(cfg.Audit.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
