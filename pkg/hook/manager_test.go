package hook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glacier-launcher/glacier/pkg/errors"
)

func TestLoadFromDir_MissingDirIsFine(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.LoadFromDir(filepath.Join(t.TempDir(), "hooks")))
	assert.False(t, m.HasHook(PreInstall))
	assert.False(t, m.HasHook(PostInstall))
}

func TestLoadFromDirAndExecute(t *testing.T) {
	dir := t.TempDir()
	script := `
		if gameVersion == "" {
			err := "game version not provided"
		}
	`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-install.tengo"), []byte(script), 0o644))

	m := NewManager()
	require.NoError(t, m.LoadFromDir(dir))
	assert.True(t, m.HasHook(PreInstall))
	assert.False(t, m.HasHook(PostInstall))

	err := m.Execute(PreInstall, Context{GameVersion: "1.21.1", ProfileName: "pack"})
	require.NoError(t, err)
}

func TestExecute_ScriptError(t *testing.T) {
	dir := t.TempDir()
	script := `err := "refusing to install on loader " + loader`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-install.tengo"), []byte(script), 0o644))

	m := NewManager()
	require.NoError(t, m.LoadFromDir(dir))

	err := m.Execute(PostInstall, Context{Loader: "forge"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrHookScript))
	assert.Contains(t, err.Error(), "forge")
}

func TestExecute_CompileError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-install.tengo"), []byte(`if {`), 0o644))

	m := NewManager()
	require.NoError(t, m.LoadFromDir(dir))

	err := m.Execute(PreInstall, Context{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrHookExecute))
}

func TestExecute_NoHookIsNoop(t *testing.T) {
	m := NewManager()
	assert.NoError(t, m.Execute(PreInstall, Context{}))
}
