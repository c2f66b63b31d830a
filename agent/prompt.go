package agent

import (
	"fmt"
	"sort"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ContextPrefix introduces the assembled context in the second System message.
const ContextPrefix = "CURRENT CONTEXT:\n"

// Greeting is shown by front ends when a session opens. It is never sent
// to a provider.
const Greeting = "Hello! I am ready to help you with your documents."

// BuildSystemPrompt returns the fixed agent instructions with a tool
// section generated from tools.
func BuildSystemPrompt(tools []mcptypes.Tool) string {
	var sb strings.Builder

	sb.WriteString(`You are a "Notebook Agent" working inside the user's document store. You have access to the user's notes and folders.
Your goal is to assist the user in writing, organizing, and understanding their notes.

You have the ability to execute tools to interact with the document store.
To use a tool, you MUST reply with a JSON block in the following format ONLY.
Do not include any other text if you are calling a tool.

`)
	sb.WriteString("```json\n")
	sb.WriteString("{\n  \"tool\": \"tool_name\",\n  \"parameters\": {\n    \"param1\": \"value1\"\n  }\n}\n")
	sb.WriteString("```\n\n")

	sb.WriteString("Available Tools:\n")
	for i, tool := range tools {
		fmt.Fprintf(&sb, "%d. %s(%s): %s\n", i+1, tool.Name, formatParams(tool.InputSchema), tool.Description)
	}

	sb.WriteString(`
Only one tool call is executed per message. After it runs you will receive its output and can answer the user.
If you don't need to use a tool, just reply normally.
Be concise, helpful, and use Markdown for formatting.
`)
	return sb.String()
}

// formatParams renders "name: type" pairs: required parameters in
// declared order, then optional ones by name.
func formatParams(schema mcptypes.ToolInputSchema) string {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var optional []string
	for name := range schema.Properties {
		if !required[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	names := append(append([]string{}, schema.Required...), optional...)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		typ := "any"
		if prop, ok := schema.Properties[name].(map[string]any); ok {
			if t, ok := prop["type"].(string); ok {
				typ = t
			}
			if enum, ok := prop["enum"].([]string); ok && len(enum) > 0 {
				typ = "'" + strings.Join(enum, "' | '") + "'"
			}
		}
		if !required[name] {
			name += "?"
		}
		parts = append(parts, name+": "+typ)
	}
	return strings.Join(parts, ", ")
}
