// Package config provides layered configuration for backlogd:
// command-line flags > BACKLOGD_* environment > config.yaml > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/backlogd/backlogd/internal/debug"
)

// DefaultDataDir is where project documents live when nothing else is set.
const DefaultDataDir = "database_backlogd"

// EnvPrefix is prepended to every environment key, e.g. BACKLOGD_DATA_DIR.
const EnvPrefix = "BACKLOGD"

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	// Precedence: project .backlogd/config.yaml > user config dir > ~/.backlogd/config.yaml
	configPath := findConfigFile()
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	// BACKLOGD_DATA_DIR maps to "data-dir", BACKLOGD_LOG_MAX_SIZE_MB to "log.max-size-mb"
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data-dir", DefaultDataDir)
	v.SetDefault("actor", "")
	v.SetDefault("json", false)
	v.SetDefault("no-color", false)
	v.SetDefault("history-file", "")

	// Activity log rotation
	v.SetDefault("activity-log", true)
	v.SetDefault("log.max-size-mb", 10)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age-days", 30)
	v.SetDefault("log.compress", false)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		debug.Logf("loaded config from %s", v.ConfigFileUsed())
	} else {
		debug.Logf("no config.yaml found; using defaults and environment variables")
	}
	return nil
}

func findConfigFile() string {
	// Walk up from CWD so commands work from subdirectories
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; ; dir = filepath.Dir(dir) {
			path := filepath.Join(dir, ".backlogd", "config.yaml")
			if fileExists(path) {
				return path
			}
			if dir == filepath.Dir(dir) {
				break
			}
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(configDir, "backlogd", "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(homeDir, ".backlogd", "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResetForTesting clears the config state, allowing Initialize() to be called again.
// Not thread-safe.
func ResetForTesting() {
	v = nil
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// ConfigFileUsed returns the path of the loaded config file, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// DataDir returns the configured data directory.
func DataDir() string {
	if dir := GetString("data-dir"); dir != "" {
		return dir
	}
	return DefaultDataDir
}

// Actor returns the name recorded in the activity log. Falls back to $USER.
func Actor() string {
	if actor := GetString("actor"); actor != "" {
		return actor
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

// HistoryFile returns the shell history path. Defaults to
// <data-dir>/.backlogd_history.
func HistoryFile() string {
	if path := GetString("history-file"); path != "" {
		return path
	}
	return filepath.Join(DataDir(), ".backlogd_history")
}

// LogOptions holds the activity log rotation settings.
type LogOptions struct {
	Enabled    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ActivityLog returns the activity log settings.
func ActivityLog() LogOptions {
	return LogOptions{
		Enabled:    GetBool("activity-log"),
		MaxSizeMB:  GetInt("log.max-size-mb"),
		MaxBackups: GetInt("log.max-backups"),
		MaxAgeDays: GetInt("log.max-age-days"),
		Compress:   GetBool("log.compress"),
	}
}
