package config

import (
	"fmt"
	"os"
	"time"
)

// Settings mirrors config.toml.
type Settings struct {
	DataDirectory         string                      `toml:"data_directory"`
	ActiveProvider        string                      `toml:"active_provider"`
	VaultPath             string                      `toml:"vault_path"`
	Store                 string                      `toml:"store"`
	ContextScope          string                      `toml:"context_scope"`
	StoreCap              int                         `toml:"store_cap"`
	RequestTimeoutSeconds int                         `toml:"request_timeout_seconds"`
	Providers             map[string]ProviderSettings `toml:"providers"`
}

// Config is the resolved, read-only application configuration. It is built
// once at startup and passed explicitly to the components that need it.
type Config struct {
	DataDirectory  string
	ActiveProvider string
	VaultPath      string
	Store          string
	ContextScope   string
	StoreCap       int
	RequestTimeout time.Duration
	Providers      map[string]ProviderSettings

	CredentialStore *CredentialStore
}

const (
	StoreFilesystem = "filesystem"
	StoreSQLite     = "sqlite"
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) Vault() string {
	return ExpandPath(c.VaultPath)
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("NOTEBOOK_AGENT_PROVIDER"); provider != "" {
		c.ActiveProvider = provider
	}
	if vault := os.Getenv("NOTEBOOK_AGENT_VAULT"); vault != "" {
		c.VaultPath = vault
	}
	if store := os.Getenv("NOTEBOOK_AGENT_STORE"); store != "" {
		c.Store = store
	}
	if dataDir := os.Getenv("NOTEBOOK_AGENT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func fromSettings(s *Settings) *Config {
	cfg := &Config{
		DataDirectory:  s.DataDirectory,
		ActiveProvider: s.ActiveProvider,
		VaultPath:      s.VaultPath,
		Store:          s.Store,
		ContextScope:   s.ContextScope,
		StoreCap:       s.StoreCap,
		RequestTimeout: time.Duration(s.RequestTimeoutSeconds) * time.Second,
		Providers:      s.Providers,
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderSettings)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreFilesystem, StoreSQLite:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store)
	}
	if c.StoreCap <= 0 {
		return fmt.Errorf("store_cap must be positive, got %d", c.StoreCap)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive")
	}
	return nil
}

// Load reads the settings file at settingsPath (the default location when
// empty), applies environment overrides and loads credentials.
func Load(settingsPath string) (*Config, error) {
	if settingsPath == "" {
		settingsPath = GetSettingsFilePath()
	}

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := fromSettings(settings)
	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", settingsPath, err)
	}

	dataDir := cfg.DataDir()
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg.CredentialStore = NewCredentialStore()
	if err := cfg.CredentialStore.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return cfg, nil
}
