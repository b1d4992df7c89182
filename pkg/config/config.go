// Package config provides configuration management for the launcher core.
// It handles loading, validating and saving launcher settings, including the
// mirror allow-list applied by the destination resolver. The package supports
// YAML configuration files and provides sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/fsutil"
	"github.com/glacier-launcher/glacier/pkg/layout"
)

// Config represents the launcher configuration.
type Config struct {
	// Mirrors is the host allow-list for mirror substitution.
	Mirrors []MirrorConfig `yaml:"mirrors,omitempty"`

	// Settings holds general launcher settings.
	Settings Settings `yaml:"settings"`
}

// MirrorConfig is one mirror substitution rule.
type MirrorConfig struct {
	Hosts  []string `yaml:"hosts"`
	Prefix string   `yaml:"prefix"`
}

// Settings represents general launcher settings.
type Settings struct {
	// ProfilesDir is the root directory for installed profiles.
	ProfilesDir string `yaml:"profiles_dir,omitempty"`

	// Network settings.
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	MaxConcurrent int           `yaml:"max_concurrent_downloads"`
	UserAgent     string        `yaml:"user_agent,omitempty"`

	// Output settings.
	LogLevel  string `yaml:"log_level"`  // error, warn, info, debug
	LogFormat string `yaml:"log_format"` // text, json
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for a single download.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultMaxConcurrent is the default download worker-pool size.
	DefaultMaxConcurrent = 4
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	profilesDir, err := fsutil.GetProfilesDir()
	if err != nil {
		profilesDir = "profiles"
	}
	return &Config{
		Settings: Settings{
			ProfilesDir:   profilesDir,
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			LogLevel:      "info",
			LogFormat:     "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Unset fields fall back to
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault loads the config at path when it exists and falls back to
// defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrapf(err, "failed to create config directory for %s", path)
	}
	return os.WriteFile(path, data, fsutil.FileModeDefault)
}

// DefaultPath returns the platform default config file location.
func DefaultPath() (string, error) {
	dataDir, err := fsutil.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.yaml"), nil
}

// MirrorRules converts the configured mirrors into layout rules.
func (c *Config) MirrorRules() []layout.MirrorRule {
	rules := make([]layout.MirrorRule, 0, len(c.Mirrors))
	for _, m := range c.Mirrors {
		if len(m.Hosts) == 0 || m.Prefix == "" {
			continue
		}
		rules = append(rules, layout.MirrorRule{Hosts: m.Hosts, Prefix: m.Prefix})
	}
	return rules
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Settings.ProfilesDir == "" {
		c.Settings.ProfilesDir = defaults.Settings.ProfilesDir
	}
	if c.Settings.HTTPTimeout <= 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent <= 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
}
