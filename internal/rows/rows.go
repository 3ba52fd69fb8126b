// Package rows turns a parsed diff into a flat, randomly-addressable
// sequence of display rows and computes the visible window over them.
package rows

import (
	"github.com/mattn/go-runewidth"

	"github.com/revtui/revtui/internal/diffparse"
)

// Kind discriminates the row variants.
type Kind int

const (
	FileHeader Kind = iota
	HunkHeader
	Content
)

// LineKind classifies a content row.
type LineKind int

const (
	ContextLine LineKind = iota
	AdditionLine
	DeletionLine
)

// DefaultOverscan is how many extra rows VisibleRange widens the
// window by on each side, so small scrolls do not force retokenizing.
const DefaultOverscan = 10

// Row is one visually distinct line of the diff listing. Index is the
// contract the renderer's scroll math relies on: row N is always the
// Nth line across the whole listing.
type Row struct {
	Kind   Kind
	Index  int
	FileID string
	HunkID string // empty on file headers
	Text   string

	// Content rows only.
	Line    LineKind
	OldLine int // 0 when the row has no old-side number
	NewLine int // 0 when the row has no new-side number

	// Wrap sub-rows only: the slice of the original content this
	// sub-row displays. LineLength is 0 for unwrapped rows, meaning
	// "the whole line".
	LineStart  int
	LineLength int
}

// Flatten walks each file, hunk and content line in order and emits
// one row per header and per line, with contiguous indices.
func Flatten(files []*diffparse.File) []Row {
	var out []Row
	push := func(r Row) {
		r.Index = len(out)
		out = append(out, r)
	}

	for _, f := range files {
		fileID := f.ID()
		push(Row{Kind: FileHeader, FileID: fileID, Text: headerText(f)})

		for _, h := range f.Hunks {
			hunkID := h.ID(fileID)
			push(Row{Kind: HunkHeader, FileID: fileID, HunkID: hunkID, Text: h.Section})

			oldLine := h.OldStart
			newLine := h.NewStart
			for _, b := range h.Blocks {
				for _, text := range b.Context {
					push(Row{
						Kind: Content, FileID: fileID, HunkID: hunkID,
						Line: ContextLine, Text: text,
						OldLine: oldLine, NewLine: newLine,
					})
					oldLine++
					newLine++
				}
				for _, text := range b.Deletions {
					push(Row{
						Kind: Content, FileID: fileID, HunkID: hunkID,
						Line: DeletionLine, Text: text,
						OldLine: oldLine,
					})
					oldLine++
				}
				for _, text := range b.Additions {
					push(Row{
						Kind: Content, FileID: fileID, HunkID: hunkID,
						Line: AdditionLine, Text: text,
						NewLine: newLine,
					})
					newLine++
				}
			}
		}
	}
	return out
}

// headerText builds the display text for a file header row.
func headerText(f *diffparse.File) string {
	text := f.Name
	if f.PrevName != "" {
		text = f.PrevName + " -> " + f.Name
	}
	switch {
	case f.IsBinary:
		return text + " (binary)"
	case f.Type == diffparse.FileNew:
		return text + " (new)"
	case f.Type == diffparse.FileDeleted:
		return text + " (deleted)"
	case f.Type == diffparse.FileRenamed:
		return text + " (renamed)"
	}
	return text
}

// VisibleRange returns the [start, end) window of rows to render for
// the given scroll position, clamped to [0, totalRows] and widened by
// overscan rows on each side.
func VisibleRange(scrollTop, viewportHeight, totalRows, overscan int) (int, int) {
	if overscan < 0 {
		overscan = DefaultOverscan
	}
	start := scrollTop - overscan
	if start < 0 {
		start = 0
	}
	end := scrollTop + viewportHeight + overscan
	if end > totalRows {
		end = totalRows
	}
	if start > totalRows {
		start = totalRows
	}
	if end < start {
		end = start
	}
	return start, end
}

// Wrap expands content rows wider than width into ceil(L/W) sub-rows,
// each carrying its slice into the original line so token slicing
// downstream stays correct without retokenizing per segment. Header
// rows pass through unchanged. Indices are reassigned contiguously.
func Wrap(in []Row, width int) []Row {
	if width <= 0 {
		return in
	}
	var out []Row
	push := func(r Row) {
		r.Index = len(out)
		out = append(out, r)
	}

	for _, r := range in {
		if r.Kind != Content {
			push(r)
			continue
		}
		runes := []rune(r.Text)
		if displayWidth(r.Text) <= width {
			push(r)
			continue
		}
		start := 0
		for start < len(runes) {
			n := runesFitting(runes[start:], width)
			if n == 0 {
				n = 1 // a single wide rune wider than the viewport still advances
			}
			sub := r
			sub.LineStart = start
			sub.LineLength = n
			sub.Text = string(runes[start : start+n])
			if start > 0 {
				// Continuation rows keep no line numbers of their own.
				sub.OldLine = 0
				sub.NewLine = 0
			}
			push(sub)
			start += n
		}
	}
	return out
}

// displayWidth measures a string in terminal columns.
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// runesFitting returns how many leading runes fit in width columns.
func runesFitting(runes []rune, width int) int {
	used := 0
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		if w < 0 {
			w = 0
		}
		if used+w > width {
			return i
		}
		used += w
	}
	return len(runes)
}
