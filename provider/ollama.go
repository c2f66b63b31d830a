package provider

import (
	"context"
	"errors"

	"github.com/ollama/ollama/api"

	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/ollama"
)

// sendOllama talks to a local Ollama server. No credential is required.
func sendOllama(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	client, err := ollama.NewClient(baseURLOrDefault(cfg), modelOrDefault(cfg))
	if err != nil {
		return "", &ProviderError{ProviderID: cfg.ProviderID, Detail: err.Error()}
	}

	reply, err := client.Chat(ctx, ConvertToOllamaMessages(messages))
	if err != nil {
		pe := &ProviderError{ProviderID: cfg.ProviderID, Detail: err.Error()}
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			pe.StatusCode = statusErr.StatusCode
			if statusErr.ErrorMessage != "" {
				pe.Detail = statusErr.ErrorMessage
			}
		}
		return "", pe
	}
	return reply, nil
}
