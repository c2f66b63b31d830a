package config

// ProviderConfig is the read-only per-provider configuration handed to a
// provider adapter for a single call.
type ProviderConfig struct {
	ProviderID string
	APIKey     string
	Model      string
	BaseURL    string // empty selects the vendor default
}

// ProviderSettings is the [providers.<id>] table of the settings file.
type ProviderSettings struct {
	Model   string `toml:"model,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// KnownProviders lists provider ids in display order.
var KnownProviders = []string{"openai", "anthropic", "gemini", "openrouter", "ollama"}

// ProviderDisplayName returns the display name for a provider
func ProviderDisplayName(providerID string) string {
	switch providerID {
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	case "gemini":
		return "Gemini"
	case "openrouter":
		return "OpenRouter"
	case "ollama":
		return "Ollama"
	default:
		return providerID
	}
}

// DefaultProviderModel returns the model used when none is configured
func DefaultProviderModel(providerID string) string {
	switch providerID {
	case "openai":
		return "gpt-4o"
	case "anthropic":
		return "claude-3-5-sonnet-20240620"
	case "gemini":
		return "gemini-1.5-pro"
	case "openrouter":
		return "meta-llama/llama-3.2-90b-instruct"
	case "ollama":
		return "llama3.1:latest"
	default:
		return ""
	}
}

// DefaultProviderBaseURL returns the vendor endpoint root for a provider
func DefaultProviderBaseURL(providerID string) string {
	switch providerID {
	case "openai":
		return "https://api.openai.com/v1"
	case "anthropic":
		return "https://api.anthropic.com"
	case "gemini":
		return "https://generativelanguage.googleapis.com"
	case "openrouter":
		return "https://openrouter.ai/api/v1"
	case "ollama":
		return "http://localhost:11434"
	default:
		return ""
	}
}

// ProviderConfig assembles the adapter configuration for providerID from
// settings, credentials and vendor defaults.
func (c *Config) ProviderConfig(providerID string) ProviderConfig {
	pc := ProviderConfig{
		ProviderID: providerID,
		Model:      DefaultProviderModel(providerID),
	}
	if s, ok := c.Providers[providerID]; ok {
		if s.Model != "" {
			pc.Model = s.Model
		}
		pc.BaseURL = s.BaseURL
	}
	if c.CredentialStore != nil {
		pc.APIKey = c.CredentialStore.Get(providerID)
	}
	return pc
}
