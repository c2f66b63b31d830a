// Package storage defines the document store the agent reads and mutates,
// along with the filesystem and SQLite implementations used by the CLI.
//
// Paths are '/'-separated and relative to the store root; the root itself
// is the empty path. Every implementation normalizes incoming paths with
// NormalizePath, which is the only sandboxing applied to tool input.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrExists       = errors.New("already exists")
	ErrNotDirectory = errors.New("not a directory")
	ErrInvalidPath  = errors.New("path escapes the store root")
)

// Kind distinguishes documents from directories.
type Kind int

const (
	KindDocument Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "Folder"
	}
	return "File"
}

// Ref points at a node of the store.
type Ref struct {
	Path string // normalized; "" for the root
	Name string
	Kind Kind
}

func (r Ref) IsDir() bool {
	return r.Kind == KindDirectory
}

// Ext returns the lower-cased extension including the dot.
func (r Ref) Ext() string {
	return strings.ToLower(path.Ext(r.Name))
}

// IsText reports whether the node is an editable text document.
func (r Ref) IsText() bool {
	if r.Kind != KindDocument {
		return false
	}
	for _, ext := range TextExtensions {
		if r.Ext() == ext {
			return true
		}
	}
	return false
}

// Parent returns the path of the containing directory.
func (r Ref) Parent() string {
	return ParentPath(r.Path)
}

// DocumentExt is appended to document paths that lack it.
const DocumentExt = ".md"

// TextExtensions are the document types whose content is attached as context.
var TextExtensions = []string{".md", ".txt"}

// Store is the abstract hierarchical text store.
type Store interface {
	// ReadText returns a document's content or ErrNotFound.
	ReadText(ctx context.Context, p string) (string, error)
	// WriteText overwrites an existing document.
	WriteText(ctx context.Context, p, text string) error
	// Create adds a new document and fails with ErrExists if p is taken.
	Create(ctx context.Context, p, text string) error
	// CreateDirectory is a no-op when the directory already exists.
	CreateDirectory(ctx context.Context, p string) error
	// Resolve returns the node at p or ErrNotFound.
	Resolve(ctx context.Context, p string) (Ref, error)
	// ListChildren returns the immediate children of dir, ordered by name.
	ListChildren(ctx context.Context, dir Ref) ([]Ref, error)
	// Root returns the root directory.
	Root() Ref
	// AllDocuments enumerates every document in the store.
	AllDocuments(ctx context.Context) ([]Ref, error)
}

// NormalizePath converts user or model supplied input into a store path.
// "", "/" and "." all denote the root.
func NormalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return "", nil
	}

	cleaned := path.Clean("/" + p)
	// path.Clean on a rooted path drops leading "..", so compare against
	// the unrooted form to detect escapes.
	if rel := path.Clean(strings.TrimLeft(p, "/")); rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrInvalidPath
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

// ParentPath returns the directory portion of a normalized path.
func ParentPath(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// JoinPath joins a normalized directory path and a child name.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// BaseName returns the last element of a normalized path.
func BaseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// EnsureDirectories creates every missing ancestor directory of p.
func EnsureDirectories(ctx context.Context, s Store, p string) error {
	parent := ParentPath(p)
	if parent == "" {
		return nil
	}

	current := ""
	for _, part := range strings.Split(parent, "/") {
		current = JoinPath(current, part)
		ref, err := s.Resolve(ctx, current)
		switch {
		case errors.Is(err, ErrNotFound):
			if err := s.CreateDirectory(ctx, current); err != nil {
				return err
			}
		case err != nil:
			return err
		case !ref.IsDir():
			return &PathError{Op: "mkdir", Path: current, Err: ErrNotDirectory}
		}
	}
	return nil
}

// PathError records a store failure and the path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
