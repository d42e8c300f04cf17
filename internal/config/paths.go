package config

import (
	"os"
	"path/filepath"
)

// GetUserConfigDir returns ~/.ctrlmux.
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".ctrlmux"), nil
}

// EnsureUserConfigDir creates the user config directory if it doesn't exist.
func EnsureUserConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
