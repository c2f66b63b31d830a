package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebookagent/storage"
	"notebookagent/tools"
)

func startClient(t *testing.T) (*client.Client, storage.Store) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	c, err := client.NewInProcessClient(NewServer(tools.NewDispatcher(store)))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Start(ctx))
	_, err = c.Initialize(ctx, mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: mcptypes.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcptypes.Implementation{Name: "test", Version: "0.0.1"},
		},
	})
	require.NoError(t, err)
	return c, store
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcptypes.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcptypes.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	c, _ := startClient(t)

	res, err := c.ListTools(context.Background(), mcptypes.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{tools.CreateDocument, tools.UpdateDocument, tools.ListDocuments}, names)
}

func TestCallTools(t *testing.T) {
	c, store := startClient(t)

	text, isErr := callTool(t, c, tools.CreateDocument, map[string]any{"path": "inbox/todo", "content": "- milk"})
	assert.False(t, isErr)
	assert.Equal(t, "Successfully created document: inbox/todo.md", text)

	got, err := store.ReadText(context.Background(), "inbox/todo.md")
	require.NoError(t, err)
	assert.Equal(t, "- milk", got)

	text, isErr = callTool(t, c, tools.CreateDocument, map[string]any{"path": "inbox/todo.md", "content": "x"})
	assert.True(t, isErr)
	assert.Contains(t, text, "already exists")

	text, isErr = callTool(t, c, tools.ListDocuments, map[string]any{"path": "inbox"})
	assert.False(t, isErr)
	assert.Equal(t, "Files in 'inbox':\n- todo.md (File)", text)
}
