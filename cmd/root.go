package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/settingsdef/internal/config"
	"github.com/zjrosen/settingsdef/internal/log"
)

// runtimeAnnotation marks commands that need storage and the registry.
const runtimeAnnotation = "settingsdef/runtime"

var (
	version       = "dev"
	cfgFile       string
	cfg           config.Config
	configErr     error
	configMissing bool // no config file was found anywhere

	rt *env
)

var rootCmd = &cobra.Command{
	Use:   "settingsdef",
	Short: "Define, inspect and persist settings catalogs",
	Long: `settingsdef manages named catalogs of setting definitions: the key, value
type, default and UI presentation of every setting an application exposes.

Catalogs are built from HCL definition files (or the built-in sample), kept
in a file, SQLite or in-memory store, and printed as a table or JSON.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: teardownRuntime,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .settingsdef/config.yaml, then ~/.config/settingsdef/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "",
		"catalog name (default from config, or \"default\")")
	rootCmd.PersistentFlags().String("backend", "",
		"storage backend: file, sqlite or memory")
	rootCmd.PersistentFlags().String("log-file", "",
		"append debug log lines to this file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"log at debug level (to stderr unless --log-file is set); also SETTINGSDEF_DEBUG")

	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("storage.backend", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("catalog", defaults.Catalog)
	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.dir", defaults.Storage.Dir)
	viper.SetDefault("storage.format", defaults.Storage.Format)
	viper.SetDefault("storage.db_path", defaults.Storage.DBPath)
	viper.SetDefault("definitions", defaults.Definitions)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.file", defaults.Log.File)

	// SETTINGSDEF_STORAGE_BACKEND=sqlite overrides storage.backend, and so on.
	viper.SetEnvPrefix("SETTINGSDEF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr = nil
	configMissing = false
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .settingsdef/config.yaml (current directory)
		// 2. ~/.config/settingsdef/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.DefaultDataDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			configMissing = true
		case cfgFile != "" && errors.Is(err, os.ErrNotExist):
			// An explicit --config that does not exist yet runs on defaults;
			// apply --remember creates it.
		default:
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

const localConfigPath = ".settingsdef/config.yaml"

func userConfigPath() string {
	return filepath.Join(config.DefaultDataDir(), "config.yaml")
}

// configPath returns the config file in use, or where one should be written.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return userConfigPath()
}

func setupRuntime(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[runtimeAnnotation] != "true" {
		return nil
	}
	if configErr != nil {
		return configErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if configMissing {
		// No config file anywhere: create the user config so there is
		// something to edit. If the write fails, continue with defaults.
		defaultPath := userConfigPath()
		if err := config.WriteDefaultConfig(defaultPath); err == nil {
			viper.SetConfigFile(defaultPath)
		}
		configMissing = false
	}

	e, err := newEnv(cmd.Context(), cfg, filepath.Dir(configPath()), viper.GetBool("debug"))
	if err != nil {
		return err
	}
	rt = e

	ctx := rt.startCommand(cmd.Context(), cmd.Name())
	cmd.SetContext(ctx)
	log.Debug(log.CatCLI, "command started", "command", cmd.Name(), "config", configPath())
	return nil
}

func teardownRuntime(cmd *cobra.Command, _ []string) error {
	if rt == nil {
		return nil
	}
	e := rt
	rt = nil
	log.Debug(log.CatCLI, "command finished", "command", cmd.Name())
	// The command context may already be cancelled by a signal; flushing
	// traces and closing the store should still happen.
	return e.Close(context.WithoutCancel(cmd.Context()))
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if rt != nil {
		// The command failed after setup, so PersistentPostRunE never ran.
		_ = rt.Close(context.WithoutCancel(ctx))
		rt = nil
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// catalogName resolves the catalog a command works on: the positional
// argument when given, then --catalog, then the configured default.
func catalogName(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	if cfg.Catalog != "" {
		return cfg.Catalog
	}
	return config.Defaults().Catalog
}
