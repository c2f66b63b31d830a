package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebookagent/config"
)

// fakeOllama answers /api/chat with the queued replies in order, repeating
// the last one.
type fakeOllama struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	reply := f.replies[len(f.replies)-1]
	if f.calls < len(f.replies) {
		reply = f.replies[f.calls]
	}
	f.calls++
	f.mu.Unlock()

	body, _ := json.Marshal(map[string]any{
		"model":   "test-model",
		"message": map[string]string{"role": "assistant", "content": reply},
		"done":    true,
	})
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Write(append(body, '\n'))
}

func (f *fakeOllama) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testEnv struct {
	configPath string
	vault      string
}

func newTestEnv(t *testing.T, baseURL string) testEnv {
	t.Helper()
	for _, key := range []string{"NOTEBOOK_AGENT_PROVIDER", "NOTEBOOK_AGENT_VAULT", "NOTEBOOK_AGENT_STORE", "NOTEBOOK_AGENT_DATA_DIR", "NOTEBOOK_AGENT_DEBUG"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	vault := filepath.Join(dir, "vault")
	require.NoError(t, os.MkdirAll(vault, 0700))

	settings := fmt.Sprintf(`data_directory = %q
active_provider = "ollama"
vault_path = %q
store = "filesystem"
context_scope = "subtree"
store_cap = 50
request_timeout_seconds = 10

[providers.ollama]
model = "test-model"
base_url = %q
`, filepath.Join(dir, "data"), vault, baseURL)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0600))
	return testEnv{configPath: path, vault: vault}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestAskPlainReply(t *testing.T) {
	srv := httptest.NewServer(&fakeOllama{replies: []string{"Nothing to change."}})
	defer srv.Close()
	env := newTestEnv(t, srv.URL)

	out, _, err := run(t, "--config", env.configPath, "ask", "hello", "there")
	require.NoError(t, err)

	assert.Contains(t, out, "[user]\nhello there\n")
	assert.Contains(t, out, "[assistant]\nNothing to change.\n")
}

func TestAskToolRoundTrip(t *testing.T) {
	call := "```json\n{\"tool\": \"create_document\", \"parameters\": {\"path\": \"ideas\", \"content\": \"first idea\"}}\n```"
	fake := &fakeOllama{replies: []string{call, "Created it."}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	env := newTestEnv(t, srv.URL)

	out, _, err := run(t, "--config", env.configPath, "ask", "--scope", "store", "make a note")
	require.NoError(t, err)

	assert.Contains(t, out, "Tool 'create_document' Output:\nSuccessfully created document: ideas.md")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Created it."))
	assert.Equal(t, 2, fake.callCount())

	data, err := os.ReadFile(filepath.Join(env.vault, "ideas.md"))
	require.NoError(t, err)
	assert.Equal(t, "first idea", string(data))
}

func TestAskMissingKeyNotice(t *testing.T) {
	srv := httptest.NewServer(&fakeOllama{replies: []string{"unused"}})
	defer srv.Close()
	env := newTestEnv(t, srv.URL)
	t.Setenv("ANTHROPIC_API_KEY", "")

	out, errOut, err := run(t, "--config", env.configPath, "--provider", "anthropic", "ask", "hi")
	require.NoError(t, err)

	assert.Contains(t, out, "Please provide an Anthropic API Key in settings.")
	assert.Contains(t, errOut, "notice: Anthropic API Key is missing.")
}

func TestAskRejectsUnknownScope(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	_, _, err := run(t, "--config", env.configPath, "ask", "--scope", "galaxy", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown context scope")
}

func TestUnknownStoreFlag(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	_, _, err := run(t, "--config", env.configPath, "--store", "tape", "ask", "hi")
	require.Error(t, err)
}

func TestToolsCommand(t *testing.T) {
	out, _, err := run(t, "tools")
	require.NoError(t, err)

	var defs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	var names []string
	for _, d := range defs {
		names = append(names, d["name"].(string))
	}
	assert.Equal(t, []string{"create_document", "update_document", "list_documents"}, names)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := run(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default config")

	out, _, err = run(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestAuthSetListDelete(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	out, _, err := run(t, "--config", env.configPath, "auth", "set", "anthropic", "ant-key")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored Anthropic API key")

	root := NewRootCommand()
	root.SetIn(strings.NewReader("gem-key\n"))
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", env.configPath, "auth", "set", "gemini"})
	require.NoError(t, root.Execute())

	cfg, err := config.Load(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "ant-key", cfg.CredentialStore.Get("anthropic"))
	assert.Equal(t, "gem-key", cfg.CredentialStore.Get("gemini"))

	out, _, err = run(t, "--config", env.configPath, "auth", "list")
	require.NoError(t, err)
	assert.Regexp(t, `anthropic\s+set`, out)
	assert.Regexp(t, `openai\s+not set`, out)

	_, _, err = run(t, "--config", env.configPath, "auth", "delete", "anthropic")
	require.NoError(t, err)

	cfg, err = config.Load(env.configPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.CredentialStore.Get("anthropic"))
	assert.Equal(t, "gem-key", cfg.CredentialStore.Get("gemini"))
}

func TestAuthRejectsKeylessProvider(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	_, _, err := run(t, "--config", env.configPath, "auth", "set", "ollama", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not use an API key")

	_, _, err = run(t, "--config", env.configPath, "auth", "set", "openai", "   ")
	require.Error(t, err)
}
