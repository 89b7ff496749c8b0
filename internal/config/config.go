// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var v *viper.Viper

// InitConfig initializes the configuration system
func InitConfig(configPath string) error {
	v = viper.New()

	// Set defaults
	setDefaults()

	// VIDMIN_SERVER_PORT overrides server.port, and so on
	v.SetEnvPrefix("vidmin")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set config file path
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Try to read existing config
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, create it with defaults
		var notFound viper.ConfigFileNotFoundError
		if os.IsNotExist(err) || errors.As(err, &notFound) {
			if err := v.WriteConfigAs(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// DefaultPath returns the config file location, honoring VIDMIN_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv("VIDMIN_CONFIG"); p != "" {
		return p, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".vidmin", "config.yaml"), nil
}

// setDefaults sets default configuration values
func setDefaults() {
	dataDir := "~/.vidmin"

	// Server defaults. The gateway is only meant for the local playback surface.
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 7676)
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Gateway defaults
	v.SetDefault("gateway.scheme", "vidmin")
	v.SetDefault("gateway.extra_roots", []string{})

	// Storage defaults
	v.SetDefault("storage.data_dir", dataDir)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", dataDir+"/vidmin.db")

	// Download defaults
	v.SetDefault("downloads.binary", "yt-dlp")
	v.SetDefault("downloads.dir", "~/Downloads")
	v.SetDefault("downloads.rate_limit", 10)
	v.SetDefault("downloads.rate_interval", "1m")

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	// History defaults
	v.SetDefault("history.limit", 50)
	v.SetDefault("history.prune_interval", "1h")
}

// GetString returns a config value as string
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetPath returns a config value as a filesystem path with ~ expanded.
func GetPath(key string) string {
	raw := GetString(key)
	if raw == "" {
		return ""
	}
	expanded, err := homedir.Expand(raw)
	if err != nil {
		return raw
	}
	return expanded
}

// GetInt returns a config value as int
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetBool returns a config value as bool
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration returns a config value as time.Duration
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice returns a config value as a list of strings
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// Set sets a config value and saves to file
func Set(key string, value interface{}) error {
	if v == nil {
		return fmt.Errorf("config not initialized")
	}

	v.Set(key, value)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetAll returns all config values as a map
func GetAll() map[string]interface{} {
	if v == nil {
		return nil
	}
	return v.AllSettings()
}

// Watch calls onChange whenever the config file is rewritten on disk.
func Watch(onChange func(name string)) {
	if v == nil {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange(e.Name)
		}
	})
	v.WatchConfig()
}
