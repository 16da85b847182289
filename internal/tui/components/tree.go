package components

import (
	"strings"
	"time"
)

// Entry is one descriptor of the live test tree.
type Entry struct {
	ID       string
	Name     string
	Depth    int
	Status   string
	Message  string
	Duration time.Duration
	// Test is false for containers and for methods that fanned out.
	Test     bool
}

// Tree is an ordered view of entries where every descendant follows its
// ancestor.
type Tree struct {
	order   []string
	entries map[string]Entry
}

// NewTree returns an empty tree.
func NewTree() Tree {
	return Tree{entries: make(map[string]Entry)}
}

// Get returns the entry for id.
func (t Tree) Get(id string) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Put stores e, appending it at the end when it is new.
func (t *Tree) Put(e Entry) {
	if _, exists := t.entries[e.ID]; !exists {
		t.order = append(t.order, e.ID)
	}
	t.entries[e.ID] = e
}

// PutUnder stores a new entry directly after the last descendant of parentID.
func (t *Tree) PutUnder(parentID string, e Entry) {
	if _, exists := t.entries[e.ID]; exists {
		t.entries[e.ID] = e
		return
	}
	t.entries[e.ID] = e

	at := -1
	for i, id := range t.order {
		if id == parentID {
			at = i
			continue
		}
		if at >= 0 && !strings.HasPrefix(id, parentID+"/") {
			break
		}
		if at >= 0 {
			at = i
		}
	}
	if at < 0 {
		t.order = append(t.order, e.ID)
		return
	}
	t.order = append(t.order[:at+1], append([]string{e.ID}, t.order[at+1:]...)...)
}

// Entries returns the entries in display order.
func (t Tree) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.entries[id])
	}
	return out
}

// Len returns the number of entries.
func (t Tree) Len() int {
	return len(t.order)
}
