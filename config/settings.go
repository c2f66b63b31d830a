package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LoadSettings decodes the settings file over the defaults. A missing file
// yields the defaults unchanged.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if !FileExists(path) {
		return settings, nil
	}

	if _, err := toml.DecodeFile(path, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

// CreateDefaultSettings writes the commented template to path unless a file
// already exists there. It reports whether a file was written.
func CreateDefaultSettings(path string) (bool, error) {
	if FileExists(path) {
		return false, nil
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateSettingsTemplate()), 0600); err != nil {
		return false, fmt.Errorf("failed to write settings: %w", err)
	}
	return true, nil
}
