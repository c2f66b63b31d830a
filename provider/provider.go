// Package provider translates the provider-agnostic message list into each
// LLM vendor's wire format and back.
//
// Every vendor is an Adapter: a pure function from a message sequence and a
// read-only config.ProviderConfig to the first textual reply. Adapters hold
// no state between calls and never retry. ChatClient picks the adapter for
// the active provider and folds every failure into reply text.
package provider

import (
	"context"
	"sort"

	"notebookagent/config"
	"notebookagent/model"
)

// Adapter sends one request to a vendor and returns the first text reply.
// Failures are *ConfigError (before any network call) or *ProviderError.
type Adapter func(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error)

// adapters is the closed dispatch table keyed by provider id.
var adapters = map[string]Adapter{
	"openai":     sendOpenAI,
	"anthropic":  sendAnthropic,
	"gemini":     sendGemini,
	"openrouter": sendOpenRouter,
	"ollama":     sendOllama,
}

// Lookup returns the adapter registered for providerID.
func Lookup(providerID string) (Adapter, bool) {
	a, ok := adapters[providerID]
	return a, ok
}

// IDs returns the registered provider ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(adapters))
	for id := range adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// requireKey returns a ConfigError when a hosted vendor has no credential.
func requireKey(cfg config.ProviderConfig) error {
	if cfg.APIKey == "" {
		return &ConfigError{ProviderID: cfg.ProviderID}
	}
	return nil
}

// modelOrDefault falls back to the vendor's default model.
func modelOrDefault(cfg config.ProviderConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return config.DefaultProviderModel(cfg.ProviderID)
}

// baseURLOrDefault falls back to the vendor's public endpoint root.
func baseURLOrDefault(cfg config.ProviderConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return config.DefaultProviderBaseURL(cfg.ProviderID)
}
