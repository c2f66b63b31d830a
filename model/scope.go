package model

import (
	"fmt"
	"strings"
)

// ContextScope selects how much of the document store is attached to a turn.
type ContextScope int

const (
	ScopeDocument ContextScope = iota
	ScopeSubtree
	ScopeStore
)

// Scopes lists every scope in cycling order (used by front ends).
var Scopes = []ContextScope{ScopeSubtree, ScopeDocument, ScopeStore}

func (s ContextScope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopeSubtree:
		return "subtree"
	case ScopeStore:
		return "store"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// Label is the human-facing name shown in selectors.
func (s ContextScope) Label() string {
	switch s {
	case ScopeDocument:
		return "Current Document"
	case ScopeSubtree:
		return "Current Folder"
	case ScopeStore:
		return "Whole Store"
	default:
		return s.String()
	}
}

// Next returns the scope following s in Scopes.
func (s ContextScope) Next() ContextScope {
	for i, candidate := range Scopes {
		if candidate == s {
			return Scopes[(i+1)%len(Scopes)]
		}
	}
	return Scopes[0]
}

// ParseScope accepts the canonical names plus the older
// file/folder/vault vocabulary.
func ParseScope(name string) (ContextScope, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "document", "file", "doc":
		return ScopeDocument, nil
	case "subtree", "folder", "dir", "directory":
		return ScopeSubtree, nil
	case "store", "vault", "all":
		return ScopeStore, nil
	default:
		return ScopeSubtree, fmt.Errorf("unknown context scope: %q", name)
	}
}
