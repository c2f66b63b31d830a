package provider

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"notebookagent/config"
	"notebookagent/model"
)

// openAITemperature is sent with every chat completion request.
const openAITemperature = 0.7

// sendOpenAI posts to {base}/chat/completions with bearer auth and reads
// choices[0].message.content.
func sendOpenAI(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	return sendChatCompletion(ctx, messages, cfg)
}

// sendOpenRouter uses the same wire shape as OpenAI against OpenRouter's
// OpenAI-compatible endpoint.
func sendOpenRouter(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	return sendChatCompletion(ctx, messages, cfg)
}

func sendChatCompletion(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	if err := requireKey(cfg); err != nil {
		return "", err
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURLOrDefault(cfg)),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelOrDefault(cfg)),
		Messages:    ConvertToOpenAIMessages(messages),
		Temperature: openai.Float(openAITemperature),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", wrapError(cfg.ProviderID, err)
	}
	if len(resp.Choices) == 0 {
		return "", malformed(cfg.ProviderID, "no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
