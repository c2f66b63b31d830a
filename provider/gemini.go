package provider

import (
	"context"

	"google.golang.org/genai"

	"notebookagent/config"
	"notebookagent/model"
)

// sendGemini calls models/{model}:generateContent on the Gemini API.
// System messages become the systemInstruction; "assistant" is sent as
// the "model" role.
func sendGemini(ctx context.Context, messages []model.Message, cfg config.ProviderConfig) (string, error) {
	if err := requireKey(cfg); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURLOrDefault(cfg),
		},
	})
	if err != nil {
		return "", &ProviderError{ProviderID: cfg.ProviderID, Detail: err.Error()}
	}

	system, contents := ConvertToGeminiContents(messages)
	var genCfg *genai.GenerateContentConfig
	if system != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		}
	}

	resp, err := client.Models.GenerateContent(ctx, modelOrDefault(cfg), contents, genCfg)
	if err != nil {
		return "", wrapError(cfg.ProviderID, err)
	}
	if len(resp.Candidates) == 0 {
		return "", malformed(cfg.ProviderID, "no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", malformed(cfg.ProviderID, "candidate has no parts")
	}
	return candidate.Content.Parts[0].Text, nil
}
