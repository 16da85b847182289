package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestTreePutKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	tree := NewTree()
	tree.Put(Entry{ID: "a", Name: "A"})
	tree.Put(Entry{ID: "a/b", Name: "B"})
	tree.Put(Entry{ID: "a", Name: "renamed"})

	require.Equal(t, 2, tree.Len())
	require.Equal(t, []string{"a", "a/b"}, ids(tree.Entries()))
	e, ok := tree.Get("a")
	require.True(t, ok)
	require.Equal(t, "renamed", e.Name)
}

func TestTreePutUnderPlacesChildAfterDescendants(t *testing.T) {
	t.Parallel()

	tree := NewTree()
	tree.Put(Entry{ID: "e"})
	tree.Put(Entry{ID: "e/c"})
	tree.Put(Entry{ID: "e/c/m1"})
	tree.Put(Entry{ID: "e/c/m2"})

	tree.PutUnder("e/c/m1", Entry{ID: "e/c/m1/#0"})
	tree.PutUnder("e/c/m1", Entry{ID: "e/c/m1/#1"})
	tree.PutUnder("missing", Entry{ID: "orphan"})

	require.Equal(t, []string{"e", "e/c", "e/c/m1", "e/c/m1/#0", "e/c/m1/#1", "e/c/m2", "orphan"}, ids(tree.Entries()))
}
