package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the whole document tree in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		path TEXT PRIMARY KEY,
		parent TEXT NOT NULL,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Root() Ref {
	return Ref{Path: "", Name: "", Kind: KindDirectory}
}

func (s *SQLiteStore) lookup(ctx context.Context, norm string) (Ref, error) {
	if norm == "" {
		return s.Root(), nil
	}

	var kind int
	err := s.db.QueryRowContext(ctx, `SELECT kind FROM nodes WHERE path = ?`, norm).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return Ref{}, &PathError{Op: "resolve", Path: norm, Err: ErrNotFound}
	}
	if err != nil {
		return Ref{}, fmt.Errorf("failed to query %s: %w", norm, err)
	}
	return Ref{Path: norm, Name: BaseName(norm), Kind: Kind(kind)}, nil
}

func (s *SQLiteStore) Resolve(ctx context.Context, p string) (Ref, error) {
	norm, err := NormalizePath(p)
	if err != nil {
		return Ref{}, &PathError{Op: "resolve", Path: p, Err: err}
	}
	return s.lookup(ctx, norm)
}

func (s *SQLiteStore) ReadText(ctx context.Context, p string) (string, error) {
	norm, err := NormalizePath(p)
	if err != nil {
		return "", &PathError{Op: "read", Path: p, Err: err}
	}

	var content string
	err = s.db.QueryRowContext(ctx,
		`SELECT content FROM nodes WHERE path = ? AND kind = ?`, norm, int(KindDocument)).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &PathError{Op: "read", Path: norm, Err: ErrNotFound}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", norm, err)
	}
	return content, nil
}

func (s *SQLiteStore) WriteText(ctx context.Context, p, text string) error {
	norm, err := NormalizePath(p)
	if err != nil {
		return &PathError{Op: "write", Path: p, Err: err}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET content = ?, updated_at = ? WHERE path = ? AND kind = ?`,
		text, time.Now(), norm, int(KindDocument))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", norm, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &PathError{Op: "write", Path: norm, Err: ErrNotFound}
	}
	return nil
}

// requireParent checks that the directory holding norm exists.
func (s *SQLiteStore) requireParent(ctx context.Context, op, norm string) error {
	parent, err := s.lookup(ctx, ParentPath(norm))
	if err != nil {
		return &PathError{Op: op, Path: norm, Err: ErrNotFound}
	}
	if !parent.IsDir() {
		return &PathError{Op: op, Path: norm, Err: ErrNotDirectory}
	}
	return nil
}

func (s *SQLiteStore) insert(ctx context.Context, op, norm string, kind Kind, content string) error {
	if err := s.requireParent(ctx, op, norm); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nodes (path, parent, name, kind, content, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		norm, ParentPath(norm), BaseName(norm), int(kind), content, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", norm, err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, p, text string) error {
	norm, err := NormalizePath(p)
	if err != nil {
		return &PathError{Op: "create", Path: p, Err: err}
	}

	if _, err := s.lookup(ctx, norm); err == nil {
		return &PathError{Op: "create", Path: norm, Err: ErrExists}
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.insert(ctx, "create", norm, KindDocument, text)
}

func (s *SQLiteStore) CreateDirectory(ctx context.Context, p string) error {
	norm, err := NormalizePath(p)
	if err != nil {
		return &PathError{Op: "mkdir", Path: p, Err: err}
	}

	existing, err := s.lookup(ctx, norm)
	switch {
	case err == nil && existing.IsDir():
		return nil
	case err == nil:
		return &PathError{Op: "mkdir", Path: norm, Err: ErrNotDirectory}
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return s.insert(ctx, "mkdir", norm, KindDirectory, "")
}

func (s *SQLiteStore) ListChildren(ctx context.Context, dir Ref) ([]Ref, error) {
	if !dir.IsDir() {
		return nil, &PathError{Op: "list", Path: dir.Path, Err: ErrNotDirectory}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, name, kind FROM nodes WHERE parent = ? ORDER BY name`, dir.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir.Path, err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

func (s *SQLiteStore) AllDocuments(ctx context.Context) ([]Ref, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, name, kind FROM nodes WHERE kind = ? ORDER BY path`, int(KindDocument))
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate documents: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

func scanRefs(rows *sql.Rows) ([]Ref, error) {
	var refs []Ref
	for rows.Next() {
		var ref Ref
		var kind int
		if err := rows.Scan(&ref.Path, &ref.Name, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		ref.Kind = Kind(kind)
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
