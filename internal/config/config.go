// Package config provides configuration types, defaults, and persistence for settingsdef.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/settingsdef/internal/log"
	"github.com/zjrosen/settingsdef/internal/settings"
	"github.com/zjrosen/settingsdef/internal/tracing"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all configuration options for settingsdef.
type Config struct {
	// Catalog is the catalog name used when a command is given none.
	Catalog string        `mapstructure:"catalog" yaml:"catalog"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	// Definitions are HCL files applied to the catalog before each command.
	Definitions []string       `mapstructure:"definitions" yaml:"definitions"`
	Watch       WatchConfig    `mapstructure:"watch" yaml:"watch"`
	Tracing     tracing.Config `mapstructure:"tracing" yaml:"tracing"`
	Log         LogConfig      `mapstructure:"log" yaml:"log"`
}

// StorageConfig selects where catalogs are persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "file" (default), "sqlite" or "memory"
	Dir     string `mapstructure:"dir" yaml:"dir"`         // directory for the file backend
	Format  string `mapstructure:"format" yaml:"format"`   // "yaml" (default) or "json"
	DBPath  string `mapstructure:"db_path" yaml:"db_path"` // database file for the sqlite backend
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// LogConfig configures the debug log.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info (default), warn, error
	File  string `mapstructure:"file" yaml:"file"`   // empty disables file logging
}

// DefaultDataDir returns ~/.config/settingsdef, or .settingsdef when the
// home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".settingsdef"
	}
	return filepath.Join(home, ".config", "settingsdef")
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() Config {
	dataDir := DefaultDataDir()
	tc := tracing.DefaultConfig()
	tc.FilePath = filepath.Join(dataDir, "traces", "traces.jsonl")

	return Config{
		Catalog: settings.DefaultName,
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(dataDir, "catalogs"),
			Format:  string(settings.FormatYAML),
			DBPath:  filepath.Join(dataDir, "settingsdef.db"),
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Tracing: tc,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks cfg for values no component could work with.
// Empty fields are allowed; Defaults fills them in before validation.
func Validate(cfg Config) error {
	if err := ValidateStorage(cfg.Storage); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch: debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	for i, def := range cfg.Definitions {
		if def == "" {
			return fmt.Errorf("definitions: entry %d is empty", i)
		}
	}
	return nil
}

// ValidateStorage checks the backend and its required location.
func ValidateStorage(s StorageConfig) error {
	if _, err := settings.ParseFormat(s.Format); err != nil {
		return err
	}
	switch s.Backend {
	case BackendFile, "":
		if s.Dir == "" {
			return fmt.Errorf("dir is required for the file backend")
		}
	case BackendSQLite:
		if s.DBPath == "" {
			return fmt.Errorf("db_path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (valid: file, sqlite, memory)", s.Backend)
	}
	return nil
}

// ValidateTracing checks exporter and sample rate settings.
func ValidateTracing(t tracing.Config) error {
	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown exporter %q (valid: none, file, stdout, otlp)", t.Exporter)
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if t.Enabled && t.Exporter == "file" && t.FilePath == "" {
		return fmt.Errorf("file_path is required for the file exporter")
	}
	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("otlp_endpoint is required for the otlp exporter")
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written by init-config.
func DefaultConfigTemplate() string {
	return `# settingsdef configuration
#
# Lookup order: --config flag, ./.settingsdef/config.yaml,
# ~/.config/settingsdef/config.yaml. Every key can also be set through an
# environment variable, e.g. SETTINGSDEF_STORAGE_BACKEND=sqlite.

# Catalog used when a command is given no name
catalog: default

storage:
  # Where catalogs are kept: file (default), sqlite or memory
  backend: file
  # Directory for the file backend (default: ~/.config/settingsdef/catalogs)
  # dir: ~/.config/settingsdef/catalogs
  # File format for the file backend: yaml (default) or json
  format: yaml
  # Database file for the sqlite backend
  # db_path: ~/.config/settingsdef/settingsdef.db

# HCL definition files applied before every command
# definitions:
#   - ./settings/controls.hcl
#   - ./settings/graphics.hcl

watch:
  # Quiet period before a changed catalog file is reloaded
  debounce: 100ms

log:
  # debug, info (default), warn or error
  level: info
  # Write log lines to this file (default: disabled)
  # file: ~/.config/settingsdef/debug.log

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/settingsdef/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := writeFileAtomic(configPath, []byte(DefaultConfigTemplate())); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return err
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
