// Package comments persists annotations attached to hunks or lines of
// a revision's diff, and re-attaches them after the revision's content
// is rewritten.
package comments

import (
	"math/rand"
	"time"

	"github.com/revtui/revtui/internal/diffparse"
)

// SchemaVersion is the on-disk document version this package writes.
const SchemaVersion = 2

// ContextLines is how many trimmed context lines an anchor samples to
// recognize its change after a rewrite.
const ContextLines = 5

// Entry is a single comment. Immutable once created except by explicit
// delete; relocation never touches entries.
type Entry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	ReplyTo   string    `json:"replyTo,omitempty"`
}

// NewEntry creates a comment entry with a fresh id.
func NewEntry(text, author, kind string) Entry {
	return Entry{
		ID:        generateID("comment"),
		Text:      text,
		Author:    author,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}

// AnchorKind discriminates the two anchor variants.
type AnchorKind string

const (
	AnchorHunk AnchorKind = "hunk"
	AnchorLine AnchorKind = "line"
)

// Side says which side of the diff a line anchor points at. An empty
// side means "new".
type Side string

const (
	OldSide Side = "old"
	NewSide Side = "new"
)

// Normalize resolves the default side.
func (s Side) Normalize() Side {
	if s == OldSide {
		return OldSide
	}
	return NewSide
}

// Anchor is a persisted pointer from comments to a hunk or a line of a
// revision's diff. Kind selects which fields are meaningful.
type Anchor struct {
	Kind AnchorKind `json:"kind"`
	ID   string     `json:"id"`
	File string     `json:"file"`

	// Hunk anchors: the header coordinates at last relocation.
	OldStart int `json:"oldStart,omitempty"`
	OldLines int `json:"oldLines,omitempty"`
	NewStart int `json:"newStart,omitempty"`
	NewLines int `json:"newLines,omitempty"`

	// Line anchors.
	Line int  `json:"line,omitempty"`
	Side Side `json:"side,omitempty"`

	Context []string `json:"context,omitempty"`
	Entries []Entry  `json:"comments"`
	Stale   bool     `json:"stale"`
}

// NewHunkAnchor anchors comments to a hunk of the given file. The
// anchor id starts as the hunk's id but is renamed on relocation, not
// re-derived.
func NewHunkAnchor(f *diffparse.File, h *diffparse.Hunk) *Anchor {
	return &Anchor{
		Kind:     AnchorHunk,
		ID:       h.ID(f.ID()),
		File:     f.Name,
		OldStart: h.OldStart,
		OldLines: h.OldLines,
		NewStart: h.NewStart,
		NewLines: h.NewLines,
		Context:  h.ContextSample(ContextLines),
	}
}

// NewLineAnchor anchors comments to one line of a file's diff.
func NewLineAnchor(file string, line int, side Side, context []string) *Anchor {
	if len(context) > ContextLines {
		context = context[:ContextLines]
	}
	return &Anchor{
		Kind:    AnchorLine,
		ID:      generateID("anchor"),
		File:    file,
		Line:    line,
		Side:    side.Normalize(),
		Context: context,
	}
}

// start is the positional reference used for proximity scoring: the
// new-side start when the anchor covers surviving content, else the
// old-side start.
func (a *Anchor) start() int {
	if a.Kind == AnchorLine {
		return a.Line
	}
	if a.NewLines > 0 {
		return a.NewStart
	}
	return a.OldStart
}

// RevisionComments is everything stored for one revision: the content
// fingerprint observed at the last successful relocation, plus the
// anchors.
type RevisionComments struct {
	CommitHash string    `json:"commitHash"`
	Anchors    []*Anchor `json:"anchors"`
}

// EntryCount sums the comments across all anchors.
func (rc *RevisionComments) EntryCount() int {
	n := 0
	for _, a := range rc.Anchors {
		n += len(a.Entries)
	}
	return n
}

// Attach merges a freshly built anchor into the revision. When an
// anchor already points at the same hunk or line, that one is returned
// so new comments join the existing thread.
func (rc *RevisionComments) Attach(a *Anchor) *Anchor {
	for _, ex := range rc.Anchors {
		if ex.Kind != a.Kind || ex.Stale {
			continue
		}
		switch a.Kind {
		case AnchorHunk:
			if ex.ID == a.ID {
				return ex
			}
		case AnchorLine:
			if ex.File == a.File && ex.Line == a.Line && ex.Side.Normalize() == a.Side.Normalize() {
				return ex
			}
		}
	}
	rc.Anchors = append(rc.Anchors, a)
	return a
}

// RemoveEntry deletes one comment by id. An anchor whose last entry is
// removed is dropped with it. Returns whether anything changed.
func (rc *RevisionComments) RemoveEntry(entryID string) bool {
	for ai, a := range rc.Anchors {
		for ei, e := range a.Entries {
			if e.ID != entryID {
				continue
			}
			a.Entries = append(a.Entries[:ei], a.Entries[ei+1:]...)
			if len(a.Entries) == 0 {
				rc.Anchors = append(rc.Anchors[:ai], rc.Anchors[ai+1:]...)
			}
			return true
		}
	}
	return false
}

// State is the whole on-disk document: schema version plus comments
// keyed by change identity.
type State struct {
	Version   int                          `json:"version"`
	Revisions map[string]*RevisionComments `json:"revisions"`
}

// NewState returns an empty current-version document.
func NewState() *State {
	return &State{
		Version:   SchemaVersion,
		Revisions: make(map[string]*RevisionComments),
	}
}

// Revision returns the comment set for a change id, creating it when
// absent.
func (st *State) Revision(changeID string) *RevisionComments {
	rc, ok := st.Revisions[changeID]
	if !ok {
		rc = &RevisionComments{}
		st.Revisions[changeID] = rc
	}
	return rc
}

func generateID(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102150405") + "_" + randomString(8)
}

func randomString(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		result[i] = chars[rand.Intn(len(chars))]
	}
	return string(result)
}
