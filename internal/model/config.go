package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Supported UI locales.
const (
	LocaleEnglish = "en"
	LocaleSpanish = "es"
)

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme  string `mapstructure:"theme" yaml:"theme"`
	Locale string `mapstructure:"locale" yaml:"locale"`
}

// FeedConfig holds notification feed behavior.
type FeedConfig struct {
	// PollIntervalSec is how often the feed silently refreshes.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// PageSize is how many notifications each page requests.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// ActiveWorkspace is the ID of the workspace to connect on startup.
	ActiveWorkspace string `mapstructure:"active_workspace" yaml:"active_workspace"`

	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Feed    FeedConfig    `mapstructure:"feed" yaml:"feed"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/rentalops/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "rentalops", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Display: DisplayConfig{
			Theme:  "default",
			Locale: LocaleEnglish,
		},
		Feed: FeedConfig{
			PollIntervalSec: 45,
			PageSize:        20,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.locale", LocaleEnglish)
	v.SetDefault("feed.poll_interval_sec", 45)
	v.SetDefault("feed.page_size", 20)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Feed.PollIntervalSec <= 0 {
		cfg.Feed.PollIntervalSec = 45
	}
	if cfg.Feed.PageSize <= 0 {
		cfg.Feed.PageSize = 20
	}
	if cfg.Display.Locale != LocaleEnglish && cfg.Display.Locale != LocaleSpanish {
		cfg.Display.Locale = LocaleEnglish
	}

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

	v.Set("active_workspace", cfg.ActiveWorkspace)
	v.Set("display", cfg.Display)
	v.Set("feed", cfg.Feed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
