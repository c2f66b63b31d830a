package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSStore is a document store backed by a directory on disk.
type FSStore struct {
	root string
}

// NewFSStore opens (and creates if needed) a directory-backed store
func NewFSStore(root string) (*FSStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	return &FSStore{root: abs}, nil
}

func (s *FSStore) abs(p string) (string, string, error) {
	norm, err := NormalizePath(p)
	if err != nil {
		return "", "", &PathError{Op: "resolve", Path: p, Err: err}
	}
	return norm, filepath.Join(s.root, filepath.FromSlash(norm)), nil
}

func (s *FSStore) Root() Ref {
	return Ref{Path: "", Name: "", Kind: KindDirectory}
}

func (s *FSStore) Resolve(ctx context.Context, p string) (Ref, error) {
	norm, full, err := s.abs(p)
	if err != nil {
		return Ref{}, err
	}
	if norm == "" {
		return s.Root(), nil
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return Ref{}, &PathError{Op: "resolve", Path: norm, Err: ErrNotFound}
	}
	if err != nil {
		return Ref{}, fmt.Errorf("failed to stat %s: %w", norm, err)
	}

	ref := Ref{Path: norm, Name: BaseName(norm), Kind: KindDocument}
	if info.IsDir() {
		ref.Kind = KindDirectory
	}
	return ref, nil
}

func (s *FSStore) ReadText(ctx context.Context, p string) (string, error) {
	norm, full, err := s.abs(p)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &PathError{Op: "read", Path: norm, Err: ErrNotFound}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", norm, err)
	}
	return string(data), nil
}

func (s *FSStore) WriteText(ctx context.Context, p, text string) error {
	norm, full, err := s.abs(p)
	if err != nil {
		return err
	}
	if norm == "" {
		return &PathError{Op: "write", Path: p, Err: ErrNotDirectory}
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return &PathError{Op: "write", Path: norm, Err: ErrNotFound}
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", norm, err)
	}
	if info.IsDir() {
		return &PathError{Op: "write", Path: norm, Err: ErrNotDirectory}
	}

	if err := os.WriteFile(full, []byte(text), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", norm, err)
	}
	return nil
}

func (s *FSStore) Create(ctx context.Context, p, text string) error {
	norm, full, err := s.abs(p)
	if err != nil {
		return err
	}
	if norm == "" {
		return &PathError{Op: "create", Path: p, Err: ErrExists}
	}

	// O_EXCL makes the existence check and the create a single step
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return &PathError{Op: "create", Path: norm, Err: ErrExists}
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", norm, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("failed to write %s: %w", norm, err)
	}
	return nil
}

func (s *FSStore) CreateDirectory(ctx context.Context, p string) error {
	norm, full, err := s.abs(p)
	if err != nil {
		return err
	}

	err = os.Mkdir(full, 0700)
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(full)
		if statErr == nil && info.IsDir() {
			return nil
		}
		return &PathError{Op: "mkdir", Path: norm, Err: ErrNotDirectory}
	}
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", norm, err)
	}
	return nil
}

func (s *FSStore) ListChildren(ctx context.Context, dir Ref) ([]Ref, error) {
	if !dir.IsDir() {
		return nil, &PathError{Op: "list", Path: dir.Path, Err: ErrNotDirectory}
	}
	_, full, err := s.abs(dir.Path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Op: "list", Path: dir.Path, Err: ErrNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir.Path, err)
	}

	children := make([]Ref, 0, len(entries))
	for _, entry := range entries {
		if hidden(entry.Name()) {
			continue
		}
		kind := KindDocument
		if entry.IsDir() {
			kind = KindDirectory
		}
		children = append(children, Ref{
			Path: JoinPath(dir.Path, entry.Name()),
			Name: entry.Name(),
			Kind: kind,
		})
	}
	return children, nil
}

func (s *FSStore) AllDocuments(ctx context.Context) ([]Ref, error) {
	var docs []Ref
	err := filepath.WalkDir(s.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if full == s.root {
			return nil
		}
		if hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		docs = append(docs, Ref{Path: rel, Name: d.Name(), Kind: KindDocument})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk store: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// hidden skips dot-entries such as .git or editor metadata folders
func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
