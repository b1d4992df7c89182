package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// PackBuilder assembles a modpack container archive for tests: an index
// document plus optional overrides and hook scripts.
type PackBuilder struct {
	// Index is the raw index.json document.
	Index []byte
	// Overrides maps profile-relative paths to file contents.
	Overrides map[string][]byte
	// Hooks maps script file names (e.g. "pre-install.tengo") to sources.
	Hooks map[string]string
}

// Build writes the pack archive into dir and returns its path.
func (b PackBuilder) Build(t *testing.T, dir string) string {
	t.Helper()

	packPath := filepath.Join(dir, "pack.zip")
	f, err := os.Create(packPath)
	if err != nil {
		t.Fatalf("Failed to create pack archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	writeEntry := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s to pack archive: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("Failed to write %s to pack archive: %v", name, err)
		}
	}

	if b.Index != nil {
		writeEntry("index.json", b.Index)
	}
	for rel, data := range b.Overrides {
		writeEntry("overrides/"+rel, data)
	}
	for name, src := range b.Hooks {
		writeEntry("hooks/"+name, []byte(src))
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finalize pack archive: %v", err)
	}
	return packPath
}
