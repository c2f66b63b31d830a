// Package mcp exposes the document tools over the Model Context Protocol so
// other MCP clients can drive the same dispatcher the chat loop uses.
package mcp

import (
	"context"
	"io"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/tools"
)

const (
	ServerName    = "notebook-agent"
	ServerVersion = "1.0.0"
)

// ToolRunner executes a parsed tool invocation.
type ToolRunner interface {
	Execute(ctx context.Context, inv model.ToolInvocation) model.ToolResult
}

// NewServer registers every tool definition against runner.
func NewServer(runner ToolRunner) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))
	for _, tool := range tools.Definitions() {
		s.AddTool(tool, toolHandler(runner, tool.Name))
	}
	return s
}

func toolHandler(runner ToolRunner, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result := runner.Execute(ctx, model.ToolInvocation{Tool: name, Parameters: args})
		config.Log.WithField("tool", name).WithField("success", result.Success).Debug("mcp tool call")

		if !result.Success {
			return mcptypes.NewToolResultError(result.Message), nil
		}
		return mcptypes.NewToolResultText(result.Message), nil
	}
}

// ServeStdio serves s over stdin/stdout until ctx is cancelled or input closes.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	return stdio.Listen(ctx, in, out)
}
