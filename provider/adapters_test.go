package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebookagent/config"
	"notebookagent/provider/testutil"
)

// fakeVendor serves a canned JSON response and records the last request.
type fakeVendor struct {
	status int
	body   string

	hits atomic.Int32

	mu   sync.Mutex
	last recordedRequest
}

type recordedRequest struct {
	Path   string
	Header http.Header
	Body   map[string]any
}

func (f *fakeVendor) request() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeVendor) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		raw, _ := io.ReadAll(r.Body)
		rec := recordedRequest{Path: r.URL.Path, Header: r.Header.Clone()}
		_ = json.Unmarshal(raw, &rec.Body)
		f.mu.Lock()
		f.last = rec
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		status := f.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAdaptersRequireKey(t *testing.T) {
	for _, id := range []string{"openai", "anthropic", "gemini", "openrouter"} {
		t.Run(id, func(t *testing.T) {
			vendor := &fakeVendor{body: `{}`}
			srv := vendor.start(t)

			adapter, ok := Lookup(id)
			require.True(t, ok)

			_, err := adapter(context.Background(), testutil.TestMessages(),
				config.ProviderConfig{ProviderID: id, BaseURL: srv.URL})

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, id, cfgErr.ProviderID)
			assert.Zero(t, vendor.hits.Load(), "no request may be sent without a credential")
		})
	}
}

func TestOpenAIAdapter(t *testing.T) {
	vendor := &fakeVendor{body: `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gpt-4o",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hi there"}}]
	}`}
	srv := vendor.start(t)

	reply, err := sendOpenAI(context.Background(), testutil.SystemInterleaved(), config.ProviderConfig{
		ProviderID: "openai",
		APIKey:     "sk-test",
		Model:      "gpt-4o",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	req := vendor.request()
	assert.Equal(t, "/chat/completions", req.Path)
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
	assert.Equal(t, "gpt-4o", req.Body["model"])
	assert.InDelta(t, 0.7, req.Body["temperature"], 0.0001)

	msgs, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 6)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[3].(map[string]any)["role"])
}

func TestOpenAIAdapterErrors(t *testing.T) {
	t.Run("non-success status is not retried", func(t *testing.T) {
		vendor := &fakeVendor{
			status: http.StatusInternalServerError,
			body:   `{"error": {"message": "upstream exploded", "type": "server_error"}}`,
		}
		srv := vendor.start(t)

		_, err := sendOpenAI(context.Background(), testutil.TestMessages(), config.ProviderConfig{
			ProviderID: "openai", APIKey: "k", BaseURL: srv.URL,
		})

		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, http.StatusInternalServerError, pe.StatusCode)
		assert.Equal(t, int32(1), vendor.hits.Load())
	})

	t.Run("empty choices", func(t *testing.T) {
		vendor := &fakeVendor{body: `{"id": "x", "object": "chat.completion", "choices": []}`}
		srv := vendor.start(t)

		_, err := sendOpenAI(context.Background(), testutil.TestMessages(), config.ProviderConfig{
			ProviderID: "openai", APIKey: "k", BaseURL: srv.URL,
		})

		var pe *ProviderError
		require.True(t, errors.As(err, &pe))
		assert.Contains(t, pe.Detail, "malformed")
	})
}

func TestOpenRouterAdapterUsesChatCompletions(t *testing.T) {
	vendor := &fakeVendor{body: `{"choices": [{"index": 0, "message": {"role": "assistant", "content": "routed"}}]}`}
	srv := vendor.start(t)

	reply, err := sendOpenRouter(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "openrouter", APIKey: "or-key", BaseURL: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "routed", reply)
	req := vendor.request()
	assert.Equal(t, "/chat/completions", req.Path)
	assert.Equal(t, config.DefaultProviderModel("openrouter"), req.Body["model"])
}

func TestAnthropicAdapter(t *testing.T) {
	vendor := &fakeVendor{body: `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-20240620",
		"content": [{"type": "text", "text": "Hello from B"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 4}
	}`}
	srv := vendor.start(t)

	reply, err := sendAnthropic(context.Background(), testutil.SystemInterleaved(), config.ProviderConfig{
		ProviderID: "anthropic",
		APIKey:     "ant-key",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from B", reply)

	req := vendor.request()
	assert.Equal(t, "/v1/messages", req.Path)
	assert.Equal(t, "ant-key", req.Header.Get("X-Api-Key"))
	assert.NotEmpty(t, req.Header.Get("Anthropic-Version"))
	assert.EqualValues(t, 4096, req.Body["max_tokens"])

	system, ok := req.Body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t,
		"You are a helpful assistant.\n\nCURRENT CONTEXT:\nnotes\n\nlate instruction",
		system[0].(map[string]any)["text"])

	msgs, ok := req.Body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.NotEqual(t, "system", m.(map[string]any)["role"])
	}
}

func TestAnthropicAdapterMalformed(t *testing.T) {
	vendor := &fakeVendor{body: `{"id": "msg_1", "type": "message", "role": "assistant", "content": []}`}
	srv := vendor.start(t)

	_, err := sendAnthropic(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "anthropic", APIKey: "k", BaseURL: srv.URL,
	})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "anthropic", pe.ProviderID)
}

func TestAnthropicAdapterSkipsNonTextBlocks(t *testing.T) {
	vendor := &fakeVendor{body: `{
		"id": "msg_2",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-sonnet-20240620",
		"content": [
			{"type": "thinking", "thinking": "considering", "signature": "sig"},
			{"type": "text", "text": "the answer"},
			{"type": "text", "text": "a second block"}
		],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 3, "output_tokens": 4}
	}`}
	srv := vendor.start(t)

	reply, err := sendAnthropic(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "anthropic", APIKey: "k", BaseURL: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", reply)
}

func TestGeminiAdapter(t *testing.T) {
	vendor := &fakeVendor{body: `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Hello from C"}]}}]
	}`}
	srv := vendor.start(t)

	reply, err := sendGemini(context.Background(), testutil.SystemInterleaved(), config.ProviderConfig{
		ProviderID: "gemini",
		APIKey:     "g-key",
		Model:      "gemini-1.5-pro",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello from C", reply)

	req := vendor.request()
	assert.True(t, strings.HasSuffix(req.Path, "models/gemini-1.5-pro:generateContent"), req.Path)

	instruction, ok := req.Body["systemInstruction"].(map[string]any)
	require.True(t, ok)
	parts := instruction["parts"].([]any)
	assert.Equal(t,
		"You are a helpful assistant.\n\nCURRENT CONTEXT:\nnotes\n\nlate instruction",
		parts[0].(map[string]any)["text"])

	contents := req.Body["contents"].([]any)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].(map[string]any)["role"])
}

func TestGeminiAdapterNoCandidates(t *testing.T) {
	vendor := &fakeVendor{body: `{"candidates": []}`}
	srv := vendor.start(t)

	_, err := sendGemini(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "gemini", APIKey: "k", BaseURL: srv.URL,
	})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Detail, "no candidates")
}

func TestGeminiAdapterStatusCode(t *testing.T) {
	vendor := &fakeVendor{
		status: http.StatusForbidden,
		body:   `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`,
	}
	srv := vendor.start(t)

	_, err := sendGemini(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "gemini", APIKey: "bad", BaseURL: srv.URL,
	})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusForbidden, pe.StatusCode)
	assert.Contains(t, pe.Detail, "API key not valid")
	assert.EqualValues(t, 1, vendor.hits.Load())
}

func TestOllamaAdapter(t *testing.T) {
	// Ollama reads the response as newline-delimited JSON.
	vendor := &fakeVendor{body: `{"model": "llama3.1:latest", "created_at": "2024-01-01T00:00:00Z", "message": {"role": "assistant", "content": "local reply"}, "done": true}` + "\n"}
	srv := vendor.start(t)

	reply, err := sendOllama(context.Background(), testutil.SystemInterleaved(), config.ProviderConfig{
		ProviderID: "ollama",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "local reply", reply)
	req := vendor.request()
	assert.Equal(t, "/api/chat", req.Path)
	assert.Equal(t, false, req.Body["stream"])
}

func TestOllamaAdapterStatusError(t *testing.T) {
	vendor := &fakeVendor{status: http.StatusNotFound, body: `{"error": "model not found"}`}
	srv := vendor.start(t)

	_, err := sendOllama(context.Background(), testutil.TestMessages(), config.ProviderConfig{
		ProviderID: "ollama", BaseURL: srv.URL,
	})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
	assert.Equal(t, "model not found", pe.Detail)
}
