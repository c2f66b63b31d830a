package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"notebookagent/model"
	"notebookagent/storage"
)

// runCommand handles slash commands typed into the input box.
func (v *ChatView) runCommand(line string) tea.Cmd {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "open":
		if arg == "" {
			v.status = "Usage: /open <query>"
			return nil
		}
		v.status = "Searching documents..."
		return openDocument(v.ctx, v.store, arg)

	case "close":
		v.active = ""
		v.status = "No active document"

	case "scope":
		scope, err := model.ParseScope(arg)
		if err != nil {
			v.status = err.Error()
			return nil
		}
		v.scope = scope
		v.status = "Context: " + scope.Label()

	default:
		v.status = fmt.Sprintf("Unknown command: /%s", name)
	}
	return nil
}

func openDocument(ctx context.Context, store storage.Store, query string) tea.Cmd {
	return func() tea.Msg {
		path, err := FindDocument(ctx, store, query)
		return documentOpenedMsg{query: query, path: path, err: err}
	}
}

// FindDocument returns the best fuzzy match for query among the store's
// text documents, or "" when nothing matches.
func FindDocument(ctx context.Context, store storage.Store, query string) (string, error) {
	docs, err := store.AllDocuments(ctx)
	if err != nil {
		return "", err
	}

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.IsText() {
			paths = append(paths, d.Path)
		}
	}

	for _, p := range paths {
		if p == query {
			return p, nil
		}
	}

	matches := fuzzy.Find(query, paths)
	if len(matches) == 0 {
		return "", nil
	}
	return paths[matches[0].Index], nil
}
