package config

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory:         "~/.local/share/notebook-agent",
		ActiveProvider:        "openai",
		VaultPath:             "~/Notes",
		Store:                 StoreFilesystem,
		ContextScope:          "subtree",
		StoreCap:              50,
		RequestTimeoutSeconds: 120,
		Providers:             map[string]ProviderSettings{},
	}
}

func GenerateSettingsTemplate() string {
	return `# Notebook Agent Configuration
# Location: ~/.config/notebook-agent/config.toml
# This file uses TOML format: https://toml.io

# Directory for credentials and the debug log
data_directory = "~/.local/share/notebook-agent"

# One of: openai, anthropic, gemini, openrouter, ollama
active_provider = "openai"

# Root of the document store
vault_path = "~/Notes"

# Document store backend: "filesystem" (vault_path is a directory)
# or "sqlite" (vault_path is a database file)
store = "filesystem"

# Default context attached to each turn: document, subtree or store
context_scope = "subtree"

# Maximum number of documents attached with the "store" scope
store_cap = 50

# Per-request timeout for provider calls
request_timeout_seconds = 120

# API keys live in <data_directory>/credentials.toml or in
# OPENAI_API_KEY / ANTHROPIC_API_KEY / GEMINI_API_KEY / OPENROUTER_API_KEY.

[providers.openai]
model = "gpt-4o"

[providers.anthropic]
model = "claude-3-5-sonnet-20240620"

[providers.gemini]
model = "gemini-1.5-pro"

[providers.ollama]
model = "llama3.1:latest"
base_url = "http://localhost:11434"
`
}
