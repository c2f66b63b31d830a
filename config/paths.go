package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "notebook-agent"

// GetConfigDir returns $XDG_CONFIG_HOME/notebook-agent, falling back to
// ~/.config/notebook-agent.
func GetConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	return filepath.Join(GetHomeDir(), ".config", appDirName)
}

func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// GetHomeDir returns the user's home directory, or "/" when it cannot be
// determined.
func GetHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// ExpandPath expands a leading ~ and $VARS, then cleans the result.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		return GetHomeDir()
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join(GetHomeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only permissions.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
