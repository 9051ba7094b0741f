package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig describes the mail REST backend.
type ServerConfig struct {
	// BaseURL is the root URL of the mail server (e.g., http://localhost:8000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Username is shown in the header; the API token lives in the keyring.
	Username string `mapstructure:"username" yaml:"username"`

	// TimeoutSec bounds every HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// StorageConfig locates files the client writes locally.
type StorageConfig struct {
	// Path is the SQLite database holding notifications.
	Path string `mapstructure:"path" yaml:"path"`

	// ExportDir receives .eml and .mbox exports.
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
}

// LogConfig controls the debug log file. The terminal belongs to the UI,
// so logs always go to a file.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Configured reports whether a server has been set up.
func (c *AppConfig) Configured() bool {
	return strings.TrimSpace(c.Server.BaseURL) != ""
}

// ConfigDir returns ~/.config/webmail, falling back to the working
// directory when the home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "webmail")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/webmail/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		Server: ServerConfig{
			TimeoutSec: 30,
		},
		Display: DisplayConfig{
			Theme:           "default",
			PollIntervalSec: 60,
		},
		Storage: StorageConfig{
			Path:      filepath.Join(dir, "webmail.db"),
			ExportDir: filepath.Join(dir, "exports"),
		},
		Log: LogConfig{
			File: filepath.Join(dir, "webmail.log"),
		},
	}
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return defaultAppConfig()
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// WEBMAIL_* environment variables override file values
// (e.g., WEBMAIL_SERVER_BASE_URL). If the file does not exist, defaults
// plus environment overrides are returned.
func LoadConfig(path string) (*AppConfig, error) {
	defaults := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("webmail")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values. Every key
	// needs a default for AutomaticEnv to pick it up during Unmarshal.
	v.SetDefault("server.base_url", defaults.Server.BaseURL)
	v.SetDefault("server.username", defaults.Server.Username)
	v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("display.poll_interval_sec", defaults.Display.PollIntervalSec)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.export_dir", defaults.Storage.ExportDir)
	v.SetDefault("log.file", defaults.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Server.TimeoutSec <= 0 {
		cfg.Server.TimeoutSec = defaults.Server.TimeoutSec
	}
	if cfg.Display.PollIntervalSec <= 0 {
		cfg.Display.PollIntervalSec = defaults.Display.PollIntervalSec
	}
	cfg.Server.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/")

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("display", cfg.Display)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
