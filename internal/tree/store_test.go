package tree

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fte/internal/domain"
)

func names(functions []*domain.TestFunction) []string {
	var out []string
	for _, fn := range functions {
		out = append(out, fn.Name)
	}
	return out
}

func TestStore_AddFileAndFunction(t *testing.T) {
	store := NewStore()
	gen := store.Clear()

	a, err := store.AddFile(gen, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)
	b, err := store.AddFile(gen, "/w/test/B.t.sol", "B.t.sol", "/w")
	require.NoError(t, err)

	// Children attach out of order across files but keep insertion order per file
	require.NoError(t, store.AddFunction(b, "test_b1", domain.Position{Line: 1}))
	require.NoError(t, store.AddFunction(a, "test_a1", domain.Position{Line: 2}))
	require.NoError(t, store.AddFunction(a, "test_a2", domain.Position{Line: 5}))

	files := store.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "A.t.sol", files[0].Name)
	assert.Equal(t, "/w", files[0].Root)
	assert.Equal(t, []string{"test_a1", "test_a2"}, names(files[0].Functions))
	assert.Equal(t, []string{"test_b1"}, names(files[1].Functions))
	assert.Equal(t, []string{"test_a1", "test_a2", "test_b1"}, names(store.Functions()))
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "/w/test/A.t.sol", a.Path())

	for _, fn := range files[0].Functions {
		assert.Same(t, files[0], fn.File)
	}
}

func TestStore_AddFileReplacesInPlace(t *testing.T) {
	store := NewStore()
	gen := store.Clear()

	first, err := store.AddFile(gen, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)
	require.NoError(t, store.AddFunction(first, "test_old", domain.Position{}))
	_, err = store.AddFile(gen, "/w/test/B.t.sol", "B.t.sol", "/w")
	require.NoError(t, err)

	replaced, err := store.AddFile(gen, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)

	files := store.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "A.t.sol", files[0].Name)
	assert.Empty(t, files[0].Functions)

	// The old handle no longer points into the tree
	assert.ErrorIs(t, store.AddFunction(first, "test_lost", domain.Position{}), ErrStaleGeneration)
	require.NoError(t, store.AddFunction(replaced, "test_new", domain.Position{}))
	assert.Equal(t, []string{"test_new"}, names(store.Functions()))
}

func TestStore_StaleGeneration(t *testing.T) {
	store := NewStore()
	old := store.Clear()

	handle, err := store.AddFile(old, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)

	current := store.Clear()
	assert.Greater(t, current, old)
	assert.Equal(t, current, store.Generation())

	_, err = store.AddFile(old, "/w/test/B.t.sol", "B.t.sol", "/w")
	assert.ErrorIs(t, err, ErrStaleGeneration)
	assert.ErrorIs(t, store.AddFunction(handle, "test_late", domain.Position{}), ErrStaleGeneration)
	assert.Zero(t, store.Len())
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	gen := store.Clear()
	_, err := store.AddFile(gen, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)

	store.Clear()

	assert.Zero(t, store.Len())
	assert.Empty(t, store.Files())
	_, ok := store.Lookup("/w/test/A.t.sol", "test_foo")
	assert.False(t, ok)
}

func TestStore_FilesIsACopy(t *testing.T) {
	store := NewStore()
	gen := store.Clear()
	handle, err := store.AddFile(gen, "/w/test/A.t.sol", "A.t.sol", "/w")
	require.NoError(t, err)
	require.NoError(t, store.AddFunction(handle, "test_foo", domain.Position{Line: 3}))

	snapshot := store.Files()
	snapshot[0].Functions = nil
	snapshot[0].Name = "changed"

	fn, ok := store.Lookup("/w/test/A.t.sol", "test_foo")
	require.True(t, ok)
	assert.Equal(t, 3, fn.Position.Line)
	assert.Equal(t, "A.t.sol", fn.File.Name)
}

func TestSelect(t *testing.T) {
	store := NewStore()
	gen := store.Clear()
	vault, _ := store.AddFile(gen, "/w/test/Vault.t.sol", "Vault.t.sol", "/w")
	token, _ := store.AddFile(gen, "/w/test/Token.t.sol", "Token.t.sol", "/w")
	require.NoError(t, store.AddFunction(vault, "test_deposit", domain.Position{}))
	require.NoError(t, store.AddFunction(vault, "test_withdraw", domain.Position{}))
	require.NoError(t, store.AddFunction(token, "test_transfer", domain.Position{}))

	prefix := func(name, pattern string) bool {
		return strings.HasPrefix(name, pattern)
	}

	tests := []struct {
		name     string
		sel      Selector
		expected []string
	}{
		{
			name:     "empty selector selects everything in order",
			sel:      Selector{},
			expected: []string{"test_deposit", "test_withdraw", "test_transfer"},
		},
		{
			name:     "file pattern",
			sel:      Selector{File: "Token"},
			expected: []string{"test_transfer"},
		},
		{
			name:     "test pattern",
			sel:      Selector{Test: "test_w"},
			expected: []string{"test_withdraw"},
		},
		{
			name: "refs",
			sel: Selector{Refs: []domain.TestRef{
				{Path: "/w/test/Token.t.sol", Name: "test_transfer"},
				{Path: "/w/test/Gone.t.sol", Name: "test_gone"},
			}},
			expected: []string{"test_transfer"},
		},
		{
			name:     "empty refs select nothing",
			sel:      Selector{Refs: []domain.TestRef{}},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(Select(store.Files(), tt.sel, prefix)))
		})
	}
}

func TestPrune(t *testing.T) {
	store := NewStore()
	gen := store.Clear()
	vault, _ := store.AddFile(gen, "/w/test/Vault.t.sol", "Vault.t.sol", "/w")
	_, _ = store.AddFile(gen, "/w/test/Empty.t.sol", "Empty.t.sol", "/w")
	require.NoError(t, store.AddFunction(vault, "test_deposit", domain.Position{}))
	require.NoError(t, store.AddFunction(vault, "test_withdraw", domain.Position{}))

	exact := func(name, pattern string) bool { return pattern == "" || name == pattern }

	type shape struct {
		Name      string
		Functions []string
	}
	shapes := func(files []*domain.TestFile) []shape {
		var out []shape
		for _, f := range files {
			out = append(out, shape{Name: f.Name, Functions: names(f.Functions)})
		}
		return out
	}

	t.Run("no filters keep empty files", func(t *testing.T) {
		want := []shape{
			{Name: "Vault.t.sol", Functions: []string{"test_deposit", "test_withdraw"}},
			{Name: "Empty.t.sol"},
		}
		if diff := cmp.Diff(want, shapes(Prune(store.Files(), Selector{}, exact))); diff != "" {
			t.Errorf("pruned tree mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("test filter drops files without matches", func(t *testing.T) {
		want := []shape{{Name: "Vault.t.sol", Functions: []string{"test_withdraw"}}}
		if diff := cmp.Diff(want, shapes(Prune(store.Files(), Selector{Test: "test_withdraw"}, exact))); diff != "" {
			t.Errorf("pruned tree mismatch (-want +got):\n%s", diff)
		}
	})
}
