package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// ReplaceFile atomically installs src at dst. If dst exists it is replaced
// with no observable intermediate state; if it doesn't, the file simply
// appears. It first attempts os.Rename; when src and dst live on different
// filesystems it falls back to copying into a temporary file next to dst and
// renaming that, which keeps the final step atomic.
func ReplaceFile(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination paths cannot be empty")
	}
	if err := EnsureFileDir(dst); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", dst, err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossFilesystemError(err) {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dst, err)
	}

	// Cross-filesystem: stage a copy on the destination filesystem, then
	// rename within it.
	staged, err := copyToTemp(src, dst)
	if err != nil {
		return err
	}
	if err := os.Rename(staged, dst); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("failed to rename %s to %s: %w", staged, dst, err)
	}
	return os.Remove(src)
}

// copyToTemp copies src into a fresh temporary file in dst's directory and
// returns the temporary path.
func copyToTemp(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".replace-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file for %s: %w", dst, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to copy %s to %s: %w", src, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, FileModeDefault); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	return tmpPath, nil
}

// isCrossFilesystemError reports whether an os.Rename error indicates a
// cross-device link, which requires the copy fallback.
func isCrossFilesystemError(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if errno, ok := linkErr.Err.(syscall.Errno); ok {
			return errno == syscall.EXDEV
		}
	}
	return false
}

// Copy copies the contents of srcFile to dstFile, creating parent directories
// as needed. Not atomic; use ReplaceFile when a reader may observe dst.
func Copy(srcFile, dstFile string) error {
	src, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer func() { _ = src.Close() }()

	if err := EnsureFileDir(dstFile); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", dstFile, err)
	}
	dst, err := os.OpenFile(dstFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy from %s to %s: %w", srcFile, dstFile, err)
	}
	return nil
}

// WalkFiles calls fn with the path of every regular file under root, relative
// to root, in lexical order. Directories and irregular files are skipped.
func WalkFiles(root string, fn func(rel string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		return fn(rel)
	})
}

// CountFiles returns the number of regular files under root.
func CountFiles(root string) (int, error) {
	count := 0
	err := WalkFiles(root, func(string) error {
		count++
		return nil
	})
	return count, err
}
