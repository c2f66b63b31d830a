package assembler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebookagent/model"
	"notebookagent/storage"
)

func newStore(t *testing.T, docs map[string]string) storage.Store {
	t.Helper()
	s, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for p, content := range docs {
		require.NoError(t, storage.EnsureDirectories(ctx, s, p))
		require.NoError(t, s.Create(ctx, p, content))
	}
	return s
}

func TestAssembleNoActiveDocument(t *testing.T) {
	a := New(newStore(t, nil), 0)

	got, err := a.Assemble(context.Background(), model.ScopeDocument, "")
	require.NoError(t, err)
	assert.Equal(t, NoActiveDocument, got)

	got, err = a.Assemble(context.Background(), model.ScopeSubtree, "")
	require.NoError(t, err)
	assert.Equal(t, NoActiveForSubtree, got)
}

func TestAssembleDocument(t *testing.T) {
	a := New(newStore(t, map[string]string{
		"notes/today.md": "buy milk",
		"notes/pic.png":  "binary",
	}), 0)

	got, err := a.Assemble(context.Background(), model.ScopeDocument, "notes/today.md")
	require.NoError(t, err)
	assert.Equal(t, "\n--- START FILE: notes/today.md ---\nbuy milk\n--- END FILE: notes/today.md ---\n", got)

	got, err = a.Assemble(context.Background(), model.ScopeDocument, "notes/pic.png")
	require.NoError(t, err)
	assert.Empty(t, got, "non-text documents contribute nothing")

	got, err = a.Assemble(context.Background(), model.ScopeDocument, "notes/missing.md")
	require.NoError(t, err)
	assert.Equal(t, "Active document 'notes/missing.md' not found.", got)
}

func TestAssembleSubtree(t *testing.T) {
	a := New(newStore(t, map[string]string{
		"projects/a.md":         "A",
		"projects/deep/b.md":    "B",
		"projects/deep/c.txt":   "C",
		"projects/deep/img.jpg": "I",
		"elsewhere/d.md":        "D",
	}), 0)

	got, err := a.Assemble(context.Background(), model.ScopeSubtree, "projects/a.md")
	require.NoError(t, err)

	for _, p := range []string{"projects/a.md", "projects/deep/b.md", "projects/deep/c.txt"} {
		assert.Equal(t, 1, strings.Count(got, "--- START FILE: "+p+" ---"), p)
	}
	assert.NotContains(t, got, "img.jpg")
	assert.NotContains(t, got, "elsewhere/d.md")
}

func TestAssembleSubtreeAtRoot(t *testing.T) {
	a := New(newStore(t, map[string]string{
		"top.md":     "T",
		"sub/one.md": "1",
	}), 0)

	got, err := a.Assemble(context.Background(), model.ScopeSubtree, "top.md")
	require.NoError(t, err)
	assert.Contains(t, got, "--- START FILE: top.md ---")
	assert.Contains(t, got, "--- START FILE: sub/one.md ---")
}

func TestAssembleStoreCapBoundary(t *testing.T) {
	tests := []struct {
		docs       int
		wantNotice string
	}{
		{docs: 50, wantNotice: ""},
		{docs: 51, wantNotice: "\n... (Truncated. 1 more documents in store) ...\n"},
		{docs: 53, wantNotice: "\n... (Truncated. 3 more documents in store) ...\n"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d documents", tt.docs), func(t *testing.T) {
			docs := make(map[string]string, tt.docs)
			for i := 0; i < tt.docs; i++ {
				docs[fmt.Sprintf("doc%03d.md", i)] = fmt.Sprintf("content %d", i)
			}
			a := New(newStore(t, docs), DefaultStoreCap)

			got, err := a.Assemble(context.Background(), model.ScopeStore, "")
			require.NoError(t, err)

			assert.Equal(t, min(tt.docs, DefaultStoreCap), strings.Count(got, "--- START FILE: "))
			if tt.wantNotice == "" {
				assert.NotContains(t, got, "Truncated")
			} else {
				assert.True(t, strings.HasSuffix(got, tt.wantNotice))
			}
		})
	}
}

func TestAssembleStoreReadsFreshContent(t *testing.T) {
	s := newStore(t, map[string]string{"a.md": "old"})
	a := New(s, 0)
	ctx := context.Background()

	first, err := a.Assemble(ctx, model.ScopeStore, "")
	require.NoError(t, err)
	require.NoError(t, s.WriteText(ctx, "a.md", "new"))
	second, err := a.Assemble(ctx, model.ScopeStore, "")
	require.NoError(t, err)

	assert.Contains(t, first, "old")
	assert.Contains(t, second, "new")
}
