// Package config provides configuration loading and structs for the Shirabe server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Content ContentConfig `yaml:"content"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the analytics database path. The search index itself is
// in-memory and has no storage settings.
type StorageConfig struct {
	AnalyticsDBPath string `yaml:"analytics_db_path"`
}

// SearchConfig holds query engine and vector settings.
type SearchConfig struct {
	DefaultLimit     int `yaml:"default_limit"`
	MaxLimit         int `yaml:"max_limit"`
	HistorySize      int `yaml:"history_size"`
	VectorDimensions int `yaml:"vector_dimensions"`
	// AnalyticsRestoreLimit caps how many stored events are loaded back into
	// the in-memory recorder at startup. 0 loads everything.
	AnalyticsRestoreLimit int `yaml:"analytics_restore_limit"`
}

// ContentConfig holds content loader settings: directories of JSON item files
// indexed at startup and optionally watched for changes.
type ContentConfig struct {
	Directories []string `yaml:"directories"`
	Watch       bool     `yaml:"watch"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
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
	cfg.Storage.AnalyticsDBPath = expandPath(cfg.Storage.AnalyticsDBPath, configDir)
	for i := range cfg.Content.Directories {
		cfg.Content.Directories[i] = expandPath(cfg.Content.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
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
