// Package tools implements the document tools the model can invoke: the
// tool-call grammar, the tool definitions and the dispatcher that runs
// them against a storage.Store.
package tools

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const (
	CreateDocument = "create_document"
	UpdateDocument = "update_document"
	ListDocuments  = "list_documents"
)

// aliases maps the legacy note-oriented names onto the canonical tools.
var aliases = map[string]string{
	"create_note": CreateDocument,
	"update_note": UpdateDocument,
	"list_files":  ListDocuments,
}

// Canonical resolves a tool name or alias to its canonical name.
func Canonical(name string) (string, bool) {
	switch name {
	case CreateDocument, UpdateDocument, ListDocuments:
		return name, true
	}
	canonical, ok := aliases[name]
	return canonical, ok
}

// Definitions returns the tool definitions in prompt order.
func Definitions() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        CreateDocument,
			Description: "Creates a new markdown document. Missing folders are created. Fails if the document already exists.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Document path relative to the store root; .md is appended when missing",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Initial document content",
					},
				},
				Required: []string{"path", "content"},
			},
		},
		{
			Name:        UpdateDocument,
			Description: "Updates an existing document by appending to or replacing its content.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path of an existing document",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Text to append or the replacement content",
					},
					"mode": map[string]any{
						"type":        "string",
						"enum":        []string{ModeAppend, ModeReplace},
						"description": "append (default) or replace",
					},
				},
				Required: []string{"path", "content"},
			},
		},
		{
			Name:        ListDocuments,
			Description: "Lists the files and folders directly inside a folder.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Folder path; empty, / or . for the root",
					},
				},
				Required: []string{"path"},
			},
		},
	}
}
