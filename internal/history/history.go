// Package history tracks resume versions as an explicit, caller-owned
// value: an ordered version list plus an index into it. Each session owns
// its History outright, so the analysis core stays free of shared state.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Version is one immutable snapshot in a resume's edit history.
type Version struct {
	ID        string    `json:"version_id"`
	Parent    string    `json:"parent,omitempty"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// History is an ordered version list with a movable current index. The zero
// value is not usable; construct with New.
type History struct {
	versions []Version
	index    int
}

// New returns an empty history.
func New() *History {
	return &History{index: -1}
}

// Push records content as a new version descending from the current one.
// Any redo tail beyond the current index is discarded: editing after an
// undo forks the timeline rather than splicing into it.
func (h *History) Push(content, summary string) Version {
	var parent string
	if current, ok := h.Current(); ok {
		parent = current.ID
	}
	version := Version{
		ID:        "v" + uuid.New().String()[:8],
		Parent:    parent,
		Content:   content,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	h.versions = append(h.versions[:h.index+1], version)
	h.index = len(h.versions) - 1
	return version
}

// Current returns the version at the index, or false when the history is
// empty.
func (h *History) Current() (Version, bool) {
	if h.index < 0 || h.index >= len(h.versions) {
		return Version{}, false
	}
	return h.versions[h.index], true
}

// Undo moves the index to the previous version and returns it. Returns
// false at the oldest version; the index does not move past the start.
func (h *History) Undo() (Version, bool) {
	if h.index <= 0 {
		return Version{}, false
	}
	h.index--
	return h.versions[h.index], true
}

// Redo moves the index forward after an undo and returns that version.
// Returns false when already at the newest version.
func (h *History) Redo() (Version, bool) {
	if h.index >= len(h.versions)-1 {
		return Version{}, false
	}
	h.index++
	return h.versions[h.index], true
}

// Len reports how many versions the history holds.
func (h *History) Len() int {
	return len(h.versions)
}

// Index returns the current position, -1 when empty.
func (h *History) Index() int {
	return h.index
}

// Versions returns a copy of the ordered version list, oldest first.
func (h *History) Versions() []Version {
	return append([]Version(nil), h.versions...)
}

// Snapshot is the serializable form of a History, for callers that persist
// edit timelines between sessions.
type Snapshot struct {
	Versions []Version `json:"versions"`
	Index    int       `json:"index"`
}

// Snapshot returns the history's serializable form.
func (h *History) Snapshot() Snapshot {
	return Snapshot{Versions: h.Versions(), Index: h.index}
}

// FromSnapshot reconstructs a History. An out-of-range index is clamped to
// the newest version.
func FromSnapshot(s Snapshot) *History {
	h := &History{
		versions: append([]Version(nil), s.Versions...),
		index:    s.Index,
	}
	if h.index >= len(h.versions) {
		h.index = len(h.versions) - 1
	}
	if h.index < -1 {
		h.index = -1
	}
	return h
}
