package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notebookagent/model"
	"notebookagent/storage"
)

const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

func createDocument(ctx context.Context, store storage.Store, params map[string]any) (model.ToolResult, error) {
	p, err := documentPath(params)
	if err != nil {
		return model.ToolResult{}, err
	}
	content, err := optionalString(params, "content")
	if err != nil {
		return model.ToolResult{}, err
	}

	existsText := fmt.Sprintf("Error: Document '%s' already exists. Use %s instead.", p, UpdateDocument)
	if _, err := store.Resolve(ctx, p); err == nil {
		return failure(existsText), nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return model.ToolResult{}, err
	}

	if err := storage.EnsureDirectories(ctx, store, p); err != nil {
		return model.ToolResult{}, err
	}
	if err := store.Create(ctx, p, content); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return failure(existsText), nil
		}
		return model.ToolResult{}, err
	}
	return success(fmt.Sprintf("Successfully created document: %s", p)), nil
}

func updateDocument(ctx context.Context, store storage.Store, params map[string]any) (model.ToolResult, error) {
	p, err := documentPath(params)
	if err != nil {
		return model.ToolResult{}, err
	}
	content, err := optionalString(params, "content")
	if err != nil {
		return model.ToolResult{}, err
	}
	mode, err := optionalString(params, "mode")
	if err != nil {
		return model.ToolResult{}, err
	}
	if mode == "" {
		mode = ModeAppend
	}
	if mode != ModeAppend && mode != ModeReplace {
		return failure(fmt.Sprintf("Error: Invalid mode '%s'. Use '%s' or '%s'.", mode, ModeAppend, ModeReplace)), nil
	}

	notFound := failure(fmt.Sprintf("Error: Document '%s' not found.", p))
	ref, err := store.Resolve(ctx, p)
	if errors.Is(err, storage.ErrNotFound) {
		return notFound, nil
	}
	if err != nil {
		return model.ToolResult{}, err
	}
	if ref.IsDir() {
		return notFound, nil
	}

	if mode == ModeReplace {
		if err := store.WriteText(ctx, p, content); err != nil {
			return model.ToolResult{}, err
		}
		return success(fmt.Sprintf("Successfully replaced content of %s", p)), nil
	}

	current, err := store.ReadText(ctx, p)
	if err != nil {
		return model.ToolResult{}, err
	}
	if err := store.WriteText(ctx, p, current+"\n"+content); err != nil {
		return model.ToolResult{}, err
	}
	return success(fmt.Sprintf("Successfully appended to %s", p)), nil
}

func listDocuments(ctx context.Context, store storage.Store, params map[string]any) (model.ToolResult, error) {
	raw, err := optionalString(params, "path")
	if err != nil {
		return model.ToolResult{}, err
	}
	p, err := storage.NormalizePath(raw)
	if err != nil {
		return model.ToolResult{}, err
	}

	label := p
	if label == "" {
		label = "/"
	}
	notFound := failure(fmt.Sprintf("Error: Folder '%s' not found.", label))
	dir := store.Root()
	if p != "" {
		dir, err = store.Resolve(ctx, p)
		if errors.Is(err, storage.ErrNotFound) {
			return notFound, nil
		}
		if err != nil {
			return model.ToolResult{}, err
		}
		if !dir.IsDir() {
			return notFound, nil
		}
	}

	children, err := store.ListChildren(ctx, dir)
	if err != nil {
		return model.ToolResult{}, err
	}

	lines := make([]string, 0, len(children))
	for _, child := range children {
		lines = append(lines, fmt.Sprintf("- %s (%s)", child.Name, child.Kind))
	}

	return success(fmt.Sprintf("Files in '%s':\n%s", label, strings.Join(lines, "\n"))), nil
}

// documentPath normalizes the required path parameter and appends the
// standard extension when it is missing.
func documentPath(params map[string]any) (string, error) {
	raw, ok := params["path"]
	if !ok {
		return "", errors.New(`missing required parameter "path"`)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf(`parameter "path" must be a string, got %T`, raw)
	}
	p, err := storage.NormalizePath(s)
	if err != nil {
		return "", err
	}
	if p == "" {
		return "", errors.New(`parameter "path" must name a document`)
	}
	if !strings.HasSuffix(p, storage.DocumentExt) {
		p += storage.DocumentExt
	}
	return p, nil
}

func optionalString(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, raw)
	}
	return s, nil
}

func success(msg string) model.ToolResult {
	return model.ToolResult{Success: true, Message: msg}
}

func failure(msg string) model.ToolResult {
	return model.ToolResult{Success: false, Message: msg}
}
