package provider

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"notebookagent/model"
)

// systemSeparator joins System messages for vendors with a single
// top-level system field.
const systemSeparator = "\n\n"

// splitSystemMessages pulls every System message out of messages. The
// System contents are joined in order; the rest keep their relative order.
func splitSystemMessages(messages []model.Message) (string, []model.Message) {
	var system []string
	rest := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		rest = append(rest, msg)
	}
	return strings.Join(system, systemSeparator), rest
}

// ConvertToOpenAIMessages keeps System messages inline; the chat
// completions wire accepts them anywhere in the array.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

// ConvertToAnthropicMessages returns the top-level system text and the
// remaining user/assistant messages.
func ConvertToAnthropicMessages(messages []model.Message) (string, []anthropic.MessageParam) {
	system, rest := splitSystemMessages(messages)

	result := make([]anthropic.MessageParam, 0, len(rest))
	for _, msg := range rest {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == model.RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(block))
		} else {
			result = append(result, anthropic.NewUserMessage(block))
		}
	}
	return system, result
}

// ConvertToGeminiContents returns the system instruction text and the
// contents array with "assistant" mapped to "model".
func ConvertToGeminiContents(messages []model.Message) (string, []*genai.Content) {
	system, rest := splitSystemMessages(messages)

	result := make([]*genai.Content, 0, len(rest))
	for _, msg := range rest {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Content, role))
	}
	return system, result
}

// ConvertToOllamaMessages is a direct field mapping; Ollama accepts all
// three roles inline.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}
