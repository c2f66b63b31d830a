package model

// ToolInvocation is a tool call parsed out of an assistant reply.
type ToolInvocation struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// ToolResult is what a dispatched tool reports back. Message is always
// human-readable, whether or not the call succeeded.
type ToolResult struct {
	Success bool
	Message string
}
