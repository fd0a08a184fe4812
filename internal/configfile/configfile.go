// Package configfile manages metadata.json, the small descriptor written
// into every data directory.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

const ConfigFileName = "metadata.json"

// FormatYAML is the only document format.
const FormatYAML = "yaml"

type Config struct {
	Format  string `json:"format"`
	Version string `json:"backlogd_version,omitempty"`
}

func DefaultConfig(version string) *Config {
	return &Config{
		Format:  FormatYAML,
		Version: version,
	}
}

func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// Load reads metadata.json. A missing file returns (nil, nil).
func Load(dataDir string) (*Config, error) {
	configPath := ConfigPath(dataDir)

	data, err := os.ReadFile(configPath) // #nosec G304 - controlled path from data dir
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	if cfg.Format == "" {
		cfg.Format = FormatYAML
	}

	return &cfg, nil
}

func (c *Config) Save(dataDir string) error {
	configPath := ConfigPath(dataDir)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return nil
}

// Ensure loads metadata.json, writing a default one when it is missing.
func Ensure(dataDir, version string) (*Config, error) {
	cfg, err := Load(dataDir)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	cfg = DefaultConfig(version)
	if err := cfg.Save(dataDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckVersion compares the version that wrote the data directory with the
// running version. It returns a warning when the directory was written by a
// newer major version, or an unknown format. Empty means compatible.
func (c *Config) CheckVersion(current string) string {
	if c.Format != FormatYAML {
		return fmt.Sprintf("data directory uses format %q; this backlogd only reads %q", c.Format, FormatYAML)
	}
	written := canonical(c.Version)
	running := canonical(current)
	if !semver.IsValid(written) || !semver.IsValid(running) {
		return ""
	}
	if semver.Compare(semver.Major(written), semver.Major(running)) > 0 {
		return fmt.Sprintf("data directory was written by backlogd %s, newer than this version (%s)", c.Version, current)
	}
	return ""
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
