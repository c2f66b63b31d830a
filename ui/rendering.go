package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"notebookagent/agent"
	"notebookagent/model"
)

func (v *ChatView) View() string {
	if !v.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(v.header())
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.statusLine())
	b.WriteString("\n")
	b.WriteString(v.textarea.View())
	b.WriteString("\n")
	b.WriteString(FormatFooter("Enter", "Send", "Tab", "Scope", "Ctrl+Y", "Copy", "/open", "Document", "Esc", "Quit"))
	return b.String()
}

func (v *ChatView) header() string {
	active := v.active
	if active == "" {
		active = "none"
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		HighlightStyle.Render("Notebook Agent"),
		DimStyle.Render(v.providerID+" · "+v.storeLabel),
		ScopeStyle.Render(v.scope.Label()),
		DimStyle.Render("doc: "+active),
	)
}

func (v *ChatView) statusLine() string {
	if v.notice != "" {
		return NoticeStyle.Render(v.notice)
	}
	if v.busy {
		return v.spinner.View() + " " + StatusStyle.Render(v.status)
	}
	return StatusStyle.Render(v.status)
}

// refreshViewport re-projects the engine history into the viewport.
func (v *ChatView) refreshViewport(gotoBottom bool) {
	if !v.ready {
		return
	}

	var b strings.Builder
	b.WriteString(AssistantStyle.Render("Assistant: "))
	b.WriteString(agent.Greeting)
	b.WriteString("\n\n")

	for i, msg := range v.engine.History() {
		b.WriteString(v.renderMessage(i, msg))
		b.WriteString("\n\n")
	}

	v.viewport.SetContent(b.String())
	if gotoBottom {
		v.viewport.GotoBottom()
	}
}

func (v *ChatView) renderMessage(index int, msg model.Message) string {
	switch {
	case msg.Role == model.RoleUser && isToolOutput(msg.Content):
		return DimStyle.Render(msg.Content)
	case msg.Role == model.RoleUser:
		return UserStyle.Render("You: ") + msg.Content
	default:
		if cached, ok := v.rendered[index]; ok {
			return cached
		}
		out := AssistantStyle.Render("Assistant:") + "\n" + renderMarkdown(msg.Content, v.width)
		v.rendered[index] = out
		return out
	}
}

func isToolOutput(content string) bool {
	return strings.HasPrefix(content, "Tool '") && strings.Contains(content, "' Output:\n")
}

// renderMarkdown renders content for the terminal. Autolinks are disabled
// so terminals can detect URLs themselves.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 80
	}
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, markdown.NewRenderer(width-4, 0))
	return strings.TrimRight(string(rendered), "\n")
}
