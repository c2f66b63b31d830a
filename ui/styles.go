package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indexes so the chat follows the terminal theme.
var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	userColor      = lipgloss.Color("10")
	scopeColor     = lipgloss.Color("11")
	noticeColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
)

var (
	UserStyle      = lipgloss.NewStyle().Foreground(userColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)

	// tool output, header details and the status line
	DimStyle    = lipgloss.NewStyle().Foreground(dimColor)
	StatusStyle = DimStyle.Italic(true)

	ScopeStyle  = lipgloss.NewStyle().Foreground(scopeColor).Bold(true)
	NoticeStyle = lipgloss.NewStyle().Foreground(noticeColor).Bold(true)

	footerKeyStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)

// FormatFooter renders key/description pairs, e.g.
// FormatFooter("Enter", "Send", "Tab", "Scope"). A trailing unpaired key is
// ignored.
func FormatFooter(pairs ...string) string {
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, pairs[i]+" "+footerKeyStyle.Render(pairs[i+1]))
	}
	return strings.Join(items, "  ")
}
