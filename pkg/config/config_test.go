package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.Settings.ProfilesDir)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Equal(t, DefaultMaxConcurrent, cfg.Settings.MaxConcurrent)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Empty(t, cfg.Mirrors)
}

func TestLoadConfig(t *testing.T) {
	doc := `
mirrors:
  - hosts: [github.com, raw.githubusercontent.com]
    prefix: https://mirror.example.net/
settings:
  profiles_dir: /data/profiles
  max_concurrent_downloads: 8
  log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/profiles", cfg.Settings.ProfilesDir)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Equal(t, 8, cfg.Settings.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	// Unset fields fall back to defaults.
	assert.Equal(t, "text", cfg.Settings.LogFormat)

	rules := cfg.MirrorRules()
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"github.com", "raw.githubusercontent.com"}, rules[0].Hosts)
	assert.Equal(t, "https://mirror.example.net/", rules[0].Prefix)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: ["), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxConcurrent, cfg.Settings.MaxConcurrent)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.MaxConcurrent = 12
	cfg.Mirrors = []MirrorConfig{{Hosts: []string{"github.com"}, Prefix: "https://m.example/"}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Settings.MaxConcurrent)
	require.Len(t, loaded.Mirrors, 1)
	assert.Equal(t, "https://m.example/", loaded.Mirrors[0].Prefix)
}

func TestMirrorRules_SkipsIncompleteEntries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mirrors = []MirrorConfig{
		{Hosts: nil, Prefix: "https://m.example/"},
		{Hosts: []string{"github.com"}, Prefix: ""},
	}
	assert.Empty(t, cfg.MirrorRules())
}
