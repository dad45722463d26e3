package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the per-user application data directory. It prefers
// the platform location when available and falls back to a dotdir in the
// user's home directory.
func DefaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tablo")
	}

	// macOS: ~/Library/Application Support/Tablo
	if isDir(filepath.Join(homeDir, "Library")) {
		return filepath.Join(homeDir, "Library", "Application Support", "Tablo")
	}

	// Windows: %USERPROFILE%/AppData/Local/Tablo
	if isDir(filepath.Join(homeDir, "AppData")) {
		return filepath.Join(homeDir, "AppData", "Local", "Tablo")
	}

	return filepath.Join(homeDir, ".tablo")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
