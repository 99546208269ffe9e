package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreBadger = "badger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROPJOURNAL_"

// Config represents the complete application configuration
type Config struct {
	Store StoreConfig `json:"store" yaml:"store" toml:"store"`
	Log   LogConfig   `json:"log" yaml:"log" toml:"log"`
}

// StoreConfig selects where the journal database is persisted
type StoreConfig struct {
	Type string `json:"type" yaml:"type" toml:"type"` // "sqlite", "file" or "badger"
	Path string `json:"path" yaml:"path" toml:"path"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`    // debug|info|warn|error
	Format string `json:"format" yaml:"format" toml:"format"` // console|json
}

// DefaultPath returns the conventional data path for a store type.
func DefaultPath(storeType string) string {
	switch storeType {
	case StoreFile:
		return "./propjournal.json"
	case StoreBadger:
		return "./propjournal.badger"
	default:
		return "./propjournal.sqlite"
	}
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: StoreSQLite,
			Path: DefaultPath(StoreSQLite),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> .env
// -> environment. An empty path skips the file. A .env file is looked up
// next to the config file, or in the working directory without one; real
// environment variables win over it.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	envDir := "."
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, err
		}
		envDir = filepath.Dir(path)
	}

	dotenv, err := godotenv.Read(filepath.Join(envDir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	cfg.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config (TOML): %w", err)
		}
		return nil
	}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvPrefix + "STORE_TYPE"); v != "" {
		if c.Store.Path == DefaultPath(c.Store.Type) {
			c.Store.Path = DefaultPath(v)
		}
		c.Store.Type = v
	}
	if v := getenv(EnvPrefix + "STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
}

// SaveToFile saves configuration to a file (YAML, TOML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	switch {
	case isYAML(path):
		data, err = yaml.Marshal(c)
	case isTOML(path):
		data, err = toml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreSQLite, StoreFile, StoreBadger:
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'file' or 'badger'")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isTOML(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".toml"
}
