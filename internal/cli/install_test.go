package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glacier-launcher/glacier/pkg/config"
	"github.com/glacier-launcher/glacier/pkg/hashing"
	"github.com/glacier-launcher/glacier/test/testutil"
)

const modContent = "mod jar bytes"

// setupConfig writes a config pointing at a fresh profiles root and points
// the global CLI flags at it.
func setupConfig(t *testing.T) (profilesRoot string) {
	t.Helper()

	profilesRoot = t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Settings.ProfilesDir = profilesRoot
	cfg.Settings.LogLevel = "error"

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(cfgPath))

	ConfigPath = &cfgPath
	t.Cleanup(func() { ConfigPath = nil })
	return profilesRoot
}

func sha1Of(t *testing.T, content string) string {
	t.Helper()
	digest, err := hashing.Digest(strings.NewReader(content), "sha1")
	require.NoError(t, err)
	return digest
}

func TestInstallCmd_EndToEnd(t *testing.T) {
	contentDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "alpha.jar"), []byte(modContent), 0o644))
	srv := testutil.NewTestServer(t, contentDir)

	index, err := json.Marshal(map[string]any{
		"formatVersion": 1,
		"name":          "CLI Pack",
		"versionId":     "1.0.0",
		"dependencies":  map[string]string{"minecraft": "1.21.1", "fabric-loader": "0.16.5"},
		"files": []map[string]any{
			{
				"path":      "mods/alpha.jar",
				"hashes":    map[string]string{"sha1": sha1Of(t, modContent)},
				"env":       map[string]string{"client": "required", "server": "required"},
				"downloads": []string{srv.URL + "/alpha.jar"},
				"fileSize":  len(modContent),
			},
		},
	})
	require.NoError(t, err)

	pack := testutil.PackBuilder{
		Index:     index,
		Overrides: map[string][]byte{"config/options.txt": []byte("fov:90")},
	}.Build(t, t.TempDir())

	profilesRoot := setupConfig(t)

	cmd := NewInstallCmd()
	cmd.SetArgs([]string{pack, "--profile", "endtoend"})
	require.NoError(t, cmd.Execute())

	profileDir := filepath.Join(profilesRoot, "endtoend")
	data, err := os.ReadFile(filepath.Join(profileDir, "mods", "alpha.jar"))
	require.NoError(t, err)
	assert.Equal(t, modContent, string(data))
	assert.FileExists(t, filepath.Join(profileDir, "config", "options.txt"))
}

func TestFetchCmd_EndToEnd(t *testing.T) {
	contentDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "glow.zip"), []byte("shader pack"), 0o644))
	srv := testutil.NewTestServer(t, contentDir)

	profilesRoot := setupConfig(t)

	cmd := NewFetchCmd()
	cmd.SetArgs([]string{srv.URL + "/glow.zip", "--profile", "endtoend", "--category", "shader", "--sha1", sha1Of(t, "shader pack")})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(profilesRoot, "endtoend", "shaderpacks", "glow.zip"))
}

func TestFetchCmd_RejectsUnknownCategory(t *testing.T) {
	setupConfig(t)

	cmd := NewFetchCmd()
	cmd.SetArgs([]string{"https://example.com/x.jar", "--category", "plugin"})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
