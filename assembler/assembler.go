// Package assembler builds the context text attached to each turn from the
// document store. It only reads; nothing is cached between calls.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/storage"
)

// DefaultStoreCap bounds how many documents the Store scope concatenates.
const DefaultStoreCap = 50

const (
	NoActiveDocument       = "No active document selected."
	NoActiveForSubtree     = "No active document to determine folder context."
	activeNotFoundTemplate = "Active document '%s' not found."
)

// Assembler renders document store content for a context scope.
type Assembler struct {
	store    storage.Store
	storeCap int
}

// New returns an assembler over store. A non-positive storeCap selects
// DefaultStoreCap.
func New(store storage.Store, storeCap int) *Assembler {
	if storeCap <= 0 {
		storeCap = DefaultStoreCap
	}
	return &Assembler{store: store, storeCap: storeCap}
}

// Assemble returns the context text for scope. active is the path of the
// current document, or "" when none is open. A missing active document is
// reported as text, not as an error.
func (a *Assembler) Assemble(ctx context.Context, scope model.ContextScope, active string) (string, error) {
	log := config.Log.WithField("scope", scope.String())

	switch scope {
	case model.ScopeDocument:
		if active == "" {
			return NoActiveDocument, nil
		}
		ref, err := a.resolveActive(ctx, active)
		if err != nil {
			return missingActive(active, err)
		}
		return a.documentContent(ctx, ref)

	case model.ScopeSubtree:
		if active == "" {
			return NoActiveForSubtree, nil
		}
		ref, err := a.resolveActive(ctx, active)
		if err != nil {
			return missingActive(active, err)
		}
		parent := a.store.Root()
		if p := ref.Parent(); p != "" {
			if parent, err = a.store.Resolve(ctx, p); err != nil {
				return "", err
			}
		}
		var b strings.Builder
		if err := a.subtreeContent(ctx, parent, &b); err != nil {
			return "", err
		}
		log.WithField("dir", parent.Path).Debug("assembled subtree context")
		return b.String(), nil

	case model.ScopeStore:
		return a.storeContent(ctx)

	default:
		return "", fmt.Errorf("unknown context scope %d", int(scope))
	}
}

func (a *Assembler) resolveActive(ctx context.Context, active string) (storage.Ref, error) {
	ref, err := a.store.Resolve(ctx, active)
	if err != nil {
		return storage.Ref{}, err
	}
	if ref.IsDir() {
		return storage.Ref{}, &storage.PathError{Op: "resolve", Path: ref.Path, Err: storage.ErrNotFound}
	}
	return ref, nil
}

func missingActive(active string, err error) (string, error) {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidPath) {
		return fmt.Sprintf(activeNotFoundTemplate, active), nil
	}
	return "", err
}

// documentContent wraps a text document in START/END delimiters. Other
// document types contribute nothing.
func (a *Assembler) documentContent(ctx context.Context, ref storage.Ref) (string, error) {
	if !ref.IsText() {
		return "", nil
	}
	content, err := a.store.ReadText(ctx, ref.Path)
	if err != nil {
		return "", err
	}
	return WrapDocument(ref.Path, content), nil
}

func (a *Assembler) subtreeContent(ctx context.Context, dir storage.Ref, b *strings.Builder) error {
	children, err := a.store.ListChildren(ctx, dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		if child.IsDir() {
			if err := a.subtreeContent(ctx, child, b); err != nil {
				return err
			}
			continue
		}
		text, err := a.documentContent(ctx, child)
		if err != nil {
			return err
		}
		b.WriteString(text)
	}
	return nil
}

func (a *Assembler) storeContent(ctx context.Context) (string, error) {
	docs, err := a.store.AllDocuments(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 0; i < len(docs) && i < a.storeCap; i++ {
		text, err := a.documentContent(ctx, docs[i])
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}

	if omitted := len(docs) - a.storeCap; omitted > 0 {
		fmt.Fprintf(&b, "\n... (Truncated. %d more documents in store) ...\n", omitted)
		config.Log.WithField("omitted", omitted).Debug("store context truncated")
	}
	return b.String(), nil
}

// WrapDocument delimits one document's content for the model.
func WrapDocument(path, content string) string {
	return fmt.Sprintf("\n--- START FILE: %s ---\n%s\n--- END FILE: %s ---\n", path, content, path)
}
