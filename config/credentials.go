package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CredentialStore manages plain-text API credentials keyed by provider id.
//
// Keys are persisted in <data_dir>/credentials.toml with 0600 permissions.
// Environment variables (see envKeyVars) take precedence over the file.
type CredentialStore struct {
	credentials map[string]string // providerID → API key
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

// envKeyVars maps provider ids to the vendor environment variable that
// overrides the stored key.
var envKeyVars = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// RequiresCredential reports whether providerID authenticates with an API
// key. Local providers such as ollama do not.
func RequiresCredential(providerID string) bool {
	_, ok := envKeyVars[providerID]
	return ok
}

// EnvKeyVar returns the environment variable that overrides the stored key.
func EnvKeyVar(providerID string) string {
	return envKeyVars[providerID]
}

// NewCredentialStore creates an empty credential store
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		credentials: make(map[string]string),
	}
}

// Load loads credentials from disk. A missing file is not an error.
func (c *CredentialStore) Load(dataDir string) error {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return fmt.Errorf("failed to parse credentials file: %w", err)
	}
	for id, key := range cf.Credentials {
		c.credentials[id] = key
	}
	return nil
}

// Save writes credentials to disk with 0600 permissions
func (c *CredentialStore) Save(dataDir string) error {
	if err := EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{Credentials: c.credentials}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

// Get retrieves a credential for a provider, preferring the environment.
func (c *CredentialStore) Get(providerID string) string {
	if envVar, ok := envKeyVars[providerID]; ok {
		if key := os.Getenv(envVar); key != "" {
			return key
		}
	}
	return c.credentials[providerID]
}

// Set stores a credential for a provider
func (c *CredentialStore) Set(providerID, apiKey string) {
	c.credentials[providerID] = apiKey
}

// Delete removes a credential for a provider
func (c *CredentialStore) Delete(providerID string) {
	delete(c.credentials, providerID)
}

// credentialsPath returns the path to the plain text credentials file
func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}
