// Package config loads the application configuration from TOML or YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Store backend names accepted in the configuration file.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config is the application configuration.
type Config struct {
	// Store selects the settings backend: file, sqlite or memory.
	Store string `toml:"store" yaml:"store"`

	// DataDir is where the file backend keeps its records. Empty means the
	// XDG data directory.
	DataDir string `toml:"data_dir" yaml:"data_dir"`

	// DatabasePath is the sqlite backend's database file. Empty means
	// lychee.db inside DataDir.
	DatabasePath string `toml:"database_path" yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// WatchBindings reloads the keybinding record when it changes on disk.
	// Only meaningful with the file backend.
	WatchBindings bool `toml:"watch_bindings" yaml:"watch_bindings"`

	// Plugins configures the Lua plugin host.
	Plugins PluginConfig `toml:"plugins" yaml:"plugins"`
}

// PluginConfig configures plugin loading.
type PluginConfig struct {
	// Dir is the directory scanned for *.lua plugins. Empty means the
	// plugins directory under the XDG config directory.
	Dir string `toml:"dir" yaml:"dir"`

	// Disabled lists plugin names that are skipped at load time.
	Disabled []string `toml:"disabled" yaml:"disabled"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store:         StoreFile,
		DataDir:       filepath.Join(xdg.DataHome, "lychee"),
		LogLevel:      "info",
		WatchBindings: true,
		Plugins: PluginConfig{
			Dir: filepath.Join(xdg.ConfigHome, "lychee", "plugins"),
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "lychee", "config.toml")
}

// Load reads a configuration file. A missing file yields the defaults; a
// present but unreadable or invalid file is an error. Values absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format", path)
	}
	if err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}

	return nil
}

// Database returns the sqlite database path, applying the DataDir default.
func (c Config) Database() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDir, "lychee.db")
}
