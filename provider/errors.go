package provider

import (
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"notebookagent/config"
)

// ConfigError reports a missing credential. It is raised before any
// network call and is never retried.
type ConfigError struct {
	ProviderID string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s API key is missing", config.ProviderDisplayName(e.ProviderID))
}

// ProviderError reports a transport failure, a non-success status or a
// response envelope without a text reply.
type ProviderError struct {
	ProviderID string
	Detail     string
	StatusCode int // 0 when no HTTP response was received
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %d %s", e.ProviderID, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.ProviderID, e.Detail)
}

// wrapError converts an SDK error into a ProviderError, keeping the HTTP
// status when the SDK exposes one.
func wrapError(providerID string, err error) *ProviderError {
	pe := &ProviderError{ProviderID: providerID, Detail: err.Error()}

	var oaiErr *openai.Error
	var antErr *anthropic.Error
	var genErr genai.APIError
	switch {
	case errors.As(err, &oaiErr):
		pe.StatusCode = oaiErr.StatusCode
	case errors.As(err, &antErr):
		pe.StatusCode = antErr.StatusCode
	case errors.As(err, &genErr):
		pe.StatusCode = genErr.Code
	}
	return pe
}

// malformed reports a response envelope that carried no text reply.
func malformed(providerID, what string) *ProviderError {
	return &ProviderError{ProviderID: providerID, Detail: "malformed response: " + what}
}
