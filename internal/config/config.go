// Package config manages lnr configuration using Viper and XDG base directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AliasConfig holds entity aliases.
type AliasConfig struct {
	Teams  map[string]string `mapstructure:"teams"`
	States map[string]string `mapstructure:"states"`
}

// Config holds the complete lnr configuration.
type Config struct {
	APIKey   string      `mapstructure:"api_key"`
	Team     string      `mapstructure:"team"`     // default team key, e.g. "ENG"
	Endpoint string      `mapstructure:"endpoint"` // API endpoint override (empty = production)
	Aliases  AliasConfig `mapstructure:"aliases"`
}

var v *viper.Viper

// Load reads the configuration from the config file and environment variables.
// Environment variables take precedence over config file values.
func Load() (*Config, error) {
	v = viper.New()

	configDir := configDir()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Bind environment variables (take precedence over config file)
	v.SetEnvPrefix("")
	_ = v.BindEnv("api_key", "LNR_API_KEY")
	_ = v.BindEnv("team", "LNR_TEAM")
	_ = v.BindEnv("endpoint", "LNR_ENDPOINT")

	// Set defaults
	v.SetDefault("aliases.teams", map[string]string{})
	v.SetDefault("aliases.states", map[string]string{})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — values come from env or defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Write persists the given config to the config file.
func Write(cfg *Config) error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("api_key", cfg.APIKey)
	v.Set("team", cfg.Team)
	if cfg.Endpoint != "" {
		v.Set("endpoint", cfg.Endpoint)
	}
	v.Set("aliases.teams", cfg.Aliases.Teams)
	v.Set("aliases.states", cfg.Aliases.States)

	path := filepath.Join(dir, "config.yml")
	return v.WriteConfigAs(path)
}

// configDir returns the XDG-compliant config directory for lnr.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lnr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lnr")
}

// Dir returns the config directory path (for use by other packages).
func Dir() string {
	return configDir()
}
