package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackZip(t *testing.T, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	zw := zip.NewWriter(f)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestExtractAll(t *testing.T) {
	packPath := writePackZip(t, map[string]string{
		"index.json":                  `{"formatVersion": 1}`,
		"overrides/config/sodium.cfg": "quality=high",
		"overrides/options.txt":       "fov=90",
	})

	dest := t.TempDir()
	m := NewManager()
	require.NoError(t, m.ExtractAll(context.Background(), packPath, dest))

	content, err := os.ReadFile(filepath.Join(dest, "index.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"formatVersion": 1}`, string(content))

	content, err = os.ReadFile(filepath.Join(dest, "overrides", "config", "sodium.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "quality=high", string(content))
}

func TestExtractAll_RejectsTraversal(t *testing.T) {
	packPath := writePackZip(t, map[string]string{
		"../escape.txt": "pwned",
	})

	dest := t.TempDir()
	m := NewManager()
	err := m.ExtractAll(context.Background(), packPath, dest)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtractAll_InvalidArchive(t *testing.T) {
	bogus := filepath.Join(t.TempDir(), "not-an-archive.zip")
	require.NoError(t, os.WriteFile(bogus, []byte("plain text"), 0o644))

	m := NewManager()
	err := m.ExtractAll(context.Background(), bogus, t.TempDir())
	require.Error(t, err)
}

func TestExtractAll_CancelledContext(t *testing.T) {
	packPath := writePackZip(t, map[string]string{"a.txt": "a", "b.txt": "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager()
	err := m.ExtractAll(ctx, packPath, t.TempDir())
	require.Error(t, err)
}
