package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"notebookagent/config"
	"notebookagent/model"
)

// anthropicMaxTokens is required by the Messages API.
const anthropicMaxTokens = 4096

// sendAnthropic posts to {base}/v1/messages. System messages move to the
// top-level system field; the SDK supplies the x-api-key and
// anthropic-version headers.
func sendAnthropic(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	if err := requireKey(cfg); err != nil {
		return "", err
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURLOrDefault(cfg)),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	system, converted := ConvertToAnthropicMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelOrDefault(cfg)),
		Messages:  converted,
		MaxTokens: anthropicMaxTokens,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapError(cfg.ProviderID, err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", malformed(cfg.ProviderID, "no text content block")
}
