// Package archive extracts modpack container archives (zip, tar.gz and
// friends via mholt/archives) into a staging directory.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/fsutil"
)

// Manager handles modpack archive extraction.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// ExtractAll extracts every member of the archive at archivePath into
// destDir. Member paths are confined to destDir; entries that would escape
// it, and symlinks, are rejected; a pack archive carries only data files.
// Extraction observes ctx between members.
func (m *Manager) ExtractAll(ctx context.Context, archivePath, destDir string) error {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrPackArchive, "%s: %v", archivePath, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	if err := fsutil.EnsureDir(destDir); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return m.extractEntry(fsys, path, destDir, d)
	})
}

func (m *Manager) extractEntry(fsys fs.FS, path, destDir string, d fs.DirEntry) error {
	if path == "." {
		return nil
	}
	targetPath, err := confinedJoin(destDir, path)
	if err != nil {
		return err
	}

	if d.IsDir() {
		return fsutil.EnsureDir(targetPath)
	}

	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Wrapf(errors.ErrPackArchive, "member %s is not a regular file", path)
	}
	return m.writeRegularFile(fsys, path, targetPath)
}

// confinedJoin joins an archive member path beneath destDir, rejecting
// absolute members and parent-directory traversal.
func confinedJoin(destDir, member string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(member))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(errors.ErrPackArchive, "member path %q escapes the archive root", member)
	}
	return filepath.Join(destDir, clean), nil
}

func (m *Manager) writeRegularFile(fsys fs.FS, path, targetPath string) error {
	srcFile, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive member %s: %w", path, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", path, err)
	}

	dstFile, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", targetPath, err)
	}
	defer func() { _ = dstFile.Close() }()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return nil
}
