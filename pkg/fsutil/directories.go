// Package fsutil provides filesystem helpers for the launcher core: directory
// scaffolding, atomic file replacement and the platform application
// directories.
package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the name of the application used in platform paths.
const AppName = "glacier"

// EnsureDir creates a directory and all necessary parents with default
// permissions if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't
// exist. Useful before creating or renaming into a file path.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// GetCacheDir returns the platform-specific cache directory for the launcher.
// On Linux: ~/.cache/glacier/
// On macOS: ~/Library/Caches/glacier/
// On Windows: %LOCALAPPDATA%\glacier\cache\
func GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName), nil
}

// GetDataDir returns the platform-specific data directory for the launcher.
// Profiles live underneath it.
func GetDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			localAppData = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(localAppData, AppName), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil

	default: // Linux, BSD, etc.
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			return filepath.Join(xdgDataHome, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName), nil
	}
}

// GetProfilesDir returns the default root directory for installed profiles.
// Format: <data_dir>/profiles/
func GetProfilesDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "profiles"), nil
}
