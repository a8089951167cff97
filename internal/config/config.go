package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	Sync     SyncConfig     `mapstructure:"sync"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig holds tracker database configuration
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // directory for folio.db; empty = default
}

// TrackingConfig holds the tracking knobs
type TrackingConfig struct {
	DefaultPageCount int `mapstructure:"default_page_count"` // global per-book page estimate
	FeedSize         int `mapstructure:"feed_size"`          // activity feed bound
	ActivityCap      int `mapstructure:"activity_cap"`       // 0 = keep full activity log
	LookbackDays     int `mapstructure:"lookback_days"`      // velocity window
}

// SyncConfig holds scheduled-sync configuration
type SyncConfig struct {
	IntervalMinutes int    `mapstructure:"interval_minutes"`
	Source          string `mapstructure:"source"` // path to an observations JSON file
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	DefaultView string `mapstructure:"default_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Tracking: TrackingConfig{
			DefaultPageCount: 300,
			FeedSize:         100,
			ActivityCap:      0,
			LookbackDays:     7,
		},
		Sync: SyncConfig{
			IntervalMinutes: 30,
		},
		UI: UIConfig{
			Theme:       "default",
			DefaultView: "overview",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "folio", "folio.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "folio", "folio.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "folio")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "folio")
	}
}

// defaultDataPath returns the default tracker database directory
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "folio", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "folio", "data")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("FOLIO")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("storage.dir", cfg.Storage.Dir)

	viper.Set("tracking.default_page_count", cfg.Tracking.DefaultPageCount)
	viper.Set("tracking.feed_size", cfg.Tracking.FeedSize)
	viper.Set("tracking.activity_cap", cfg.Tracking.ActivityCap)
	viper.Set("tracking.lookback_days", cfg.Tracking.LookbackDays)

	viper.Set("sync.interval_minutes", cfg.Sync.IntervalMinutes)
	viper.Set("sync.source", cfg.Sync.Source)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.default_view", cfg.UI.DefaultView)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
