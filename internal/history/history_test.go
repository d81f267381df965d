package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PushAndCurrent(t *testing.T) {
	h := New()

	_, ok := h.Current()
	assert.False(t, ok, "empty history has no current version")

	v1 := h.Push("first draft", "initial import")
	current, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, v1.ID, current.ID)
	assert.Equal(t, "first draft", current.Content)
	assert.Empty(t, v1.Parent, "first version has no parent")

	v2 := h.Push("second draft", "rewrote summary")
	assert.Equal(t, v1.ID, v2.Parent)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Index())
}

func TestHistory_UndoRedo(t *testing.T) {
	h := New()
	v1 := h.Push("one", "")
	v2 := h.Push("two", "")
	v3 := h.Push("three", "")

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, v2.ID, got.ID)

	got, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, v1.ID, got.ID)

	_, ok = h.Undo()
	assert.False(t, ok, "undo stops at the oldest version")

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, v2.ID, got.ID)

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, v3.ID, got.ID)

	_, ok = h.Redo()
	assert.False(t, ok, "redo stops at the newest version")
}

func TestHistory_PushAfterUndoDiscardsRedoTail(t *testing.T) {
	h := New()
	h.Push("one", "")
	v2 := h.Push("two", "")
	h.Push("three", "")

	_, ok := h.Undo()
	require.True(t, ok)

	v4 := h.Push("four", "fork after undo")

	assert.Equal(t, v2.ID, v4.Parent)
	assert.Equal(t, 3, h.Len())
	_, ok = h.Redo()
	assert.False(t, ok, "the discarded tail must not be reachable")

	current, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, v4.ID, current.ID)
}

func TestHistory_EmptyUndoRedo(t *testing.T) {
	h := New()

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistory_VersionsReturnsCopy(t *testing.T) {
	h := New()
	h.Push("one", "")

	versions := h.Versions()
	versions[0].Content = "mutated"

	current, _ := h.Current()
	assert.Equal(t, "one", current.Content)
}

func TestHistory_SnapshotRoundTrip(t *testing.T) {
	h := New()
	h.Push("one", "")
	v2 := h.Push("two", "")
	h.Push("three", "")
	_, ok := h.Undo()
	require.True(t, ok)

	restored := FromSnapshot(h.Snapshot())

	assert.Equal(t, 3, restored.Len())
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, v2.ID, current.ID, "the undo position survives the round trip")
}

func TestFromSnapshot_ClampsIndex(t *testing.T) {
	s := Snapshot{
		Versions: []Version{{ID: "v1", Content: "one"}},
		Index:    7,
	}

	h := FromSnapshot(s)
	assert.Equal(t, 0, h.Index(), "out-of-range index clamps to the newest version")

	empty := FromSnapshot(Snapshot{Index: -5})
	assert.Equal(t, -1, empty.Index())
	_, ok := empty.Current()
	assert.False(t, ok)
}

func TestHistory_VersionIDsAreUnique(t *testing.T) {
	h := New()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		v := h.Push("content", "")
		assert.False(t, seen[v.ID], "duplicate version id %s", v.ID)
		seen[v.ID] = true
	}
}
