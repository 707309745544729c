package configloader

import (
	"os"
	"path/filepath"

	"github.com/yaklabco/cheatfind/pkg/config"
)

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// User is the user-level config path (e.g., ~/.config/cheatfind/config.yaml).
	User string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// configFileNames are looked up in the user config directory, in order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var configFileNames = []string{"config.yaml", "config.yml"}

// UserConfigDir returns $XDG_CONFIG_HOME/cheatfind, falling back to
// ~/.config/cheatfind. It returns "" when neither can be resolved.
func UserConfigDir(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}

	configHome := getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, config.AppName)
}

// DefaultConfigPath is where init writes a new user config.
func DefaultConfigPath(getenv func(string) string) string {
	dir := UserConfigDir(getenv)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileNames[0])
}

// findUserConfig returns the existing user config file, if any.
func findUserConfig(getenv func(string) string) string {
	dir := UserConfigDir(getenv)
	if dir == "" {
		return ""
	}
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
