package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, "default", cfg.Catalog)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, "yaml", cfg.Storage.Format)
	require.NotEmpty(t, cfg.Storage.Dir)
	require.NotEmpty(t, cfg.Storage.DBPath)
	require.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
	require.False(t, cfg.Tracing.Enabled, "tracing is off by default")
	require.NotEmpty(t, cfg.Tracing.FilePath)
	require.NoError(t, Validate(cfg), "defaults must validate")
}

func TestValidateStorage(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageConfig
		wantErr string
	}{
		{"file ok", StorageConfig{Backend: "file", Dir: "/tmp/x"}, ""},
		{"file missing dir", StorageConfig{Backend: "file"}, "dir is required"},
		{"sqlite ok", StorageConfig{Backend: "sqlite", DBPath: "/tmp/x.db"}, ""},
		{"sqlite missing path", StorageConfig{Backend: "sqlite"}, "db_path is required"},
		{"memory ok", StorageConfig{Backend: "memory"}, ""},
		{"bad backend", StorageConfig{Backend: "redis"}, "unknown backend"},
		{"bad format", StorageConfig{Backend: "memory", Format: "toml"}, "toml"},
		{"json ok", StorageConfig{Backend: "memory", Format: "json"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorage(tt.storage)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Tracing(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Exporter = "zipkin"
	require.ErrorContains(t, Validate(cfg), "unknown exporter")

	cfg = Defaults()
	cfg.Tracing.SampleRate = 1.5
	require.ErrorContains(t, Validate(cfg), "sample_rate")

	cfg = Defaults()
	cfg.Tracing.Enabled = true
	cfg.Tracing.FilePath = ""
	require.ErrorContains(t, Validate(cfg), "file_path")
}

func TestValidate_Misc(t *testing.T) {
	cfg := Defaults()
	cfg.Watch.Debounce = -time.Second
	require.ErrorContains(t, Validate(cfg), "debounce")

	cfg = Defaults()
	cfg.Log.Level = "loud"
	require.ErrorContains(t, Validate(cfg), "unknown level")

	cfg = Defaults()
	cfg.Definitions = []string{"a.hcl", ""}
	require.ErrorContains(t, Validate(cfg), "entry 1")
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestDefaultConfigTemplate_IsValidYAML(t *testing.T) {
	var parsed struct {
		Catalog string        `yaml:"catalog"`
		Storage StorageConfig `yaml:"storage"`
		Log     LogConfig     `yaml:"log"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &parsed))
	require.Equal(t, "default", parsed.Catalog)
	require.Equal(t, "file", parsed.Storage.Backend)
	require.Equal(t, "yaml", parsed.Storage.Format)
	require.Equal(t, "info", parsed.Log.Level)
}

func TestSaveDefinitions_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveDefinitions(path, []string{"a.hcl", "b.hcl"}))

	var got struct {
		Definitions []string `yaml:"definitions"`
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.Equal(t, []string{"a.hcl", "b.hcl"}, got.Definitions)
}

func TestSaveDefinitions_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))
	require.NoError(t, SaveDefinitions(path, []string{"controls.hcl"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.True(t, strings.Contains(content, "# Where catalogs are kept"), "comments should survive")
	require.Contains(t, content, "controls.hcl")

	require.NoError(t, SaveDefinitions(path, []string{"other.hcl"}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "- controls.hcl", "existing list is replaced")
	require.Contains(t, string(data), "other.hcl")
}
