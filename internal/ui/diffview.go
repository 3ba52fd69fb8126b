package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/revtui/revtui/internal/comments"
	"github.com/revtui/revtui/internal/diffparse"
	"github.com/revtui/revtui/internal/highlight"
	"github.com/revtui/revtui/internal/rows"
	"github.com/revtui/revtui/internal/worddiff"
)

// gutterWidth is the fixed width of the line number gutter:
// marker column + two 4-digit line number columns + separators.
const gutterWidth = 12

// DiffView is a virtualized widget over a flattened diff. It renders only
// the rows inside the viewport and asks the highlight scheduler for tokens,
// so scrolling through a large diff never touches more than a screenful of
// work per frame.
type DiffView struct {
	files    []*diffparse.File
	flat     []rows.Row
	display  []rows.Row
	toFlat   []int // display index to flat index, identity when not wrapping
	wordSegs map[int][]worddiff.Segment

	cursor    int
	scrollTop int
	height    int
	width     int
	wrap      bool
	overscan  int

	scheduler *highlight.Scheduler
	languages map[string]string

	// markers maps a flat row index to the anchors attached to it
	markers map[int][]*comments.Anchor
}

// NewDiffView creates a diff view backed by the given highlight scheduler
func NewDiffView(scheduler *highlight.Scheduler, overscan int) *DiffView {
	if overscan <= 0 {
		overscan = rows.DefaultOverscan
	}
	return &DiffView{
		scheduler: scheduler,
		overscan:  overscan,
		languages: make(map[string]string),
		markers:   make(map[int][]*comments.Anchor),
		wordSegs:  make(map[int][]worddiff.Segment),
	}
}

// SetFiles replaces the diff being displayed and resets the viewport
func (dv *DiffView) SetFiles(files []*diffparse.File) {
	dv.files = files
	dv.flat = rows.Flatten(files)
	dv.cursor = 0
	dv.scrollTop = 0

	dv.languages = make(map[string]string)
	for _, f := range files {
		dv.languages[f.ID()] = highlight.Language(f.Name)
	}

	dv.wordSegs = buildWordSegments(files)
	dv.markers = make(map[int][]*comments.Anchor)

	dv.scheduler.BumpGeneration()
	dv.rebuildDisplay()
}

// SetComments rebuilds the gutter markers from the given revision comments
func (dv *DiffView) SetComments(rc *comments.RevisionComments) {
	dv.markers = make(map[int][]*comments.Anchor)
	if rc == nil {
		return
	}

	byHunk := make(map[string]*comments.Anchor)
	type lineKey struct {
		file string
		side comments.Side
		line int
	}
	byLine := make(map[lineKey]*comments.Anchor)
	for _, a := range rc.Anchors {
		if a.Kind == comments.AnchorHunk {
			byHunk[a.ID] = a
		} else {
			byLine[lineKey{a.File, a.Side.Normalize(), a.Line}] = a
		}
	}

	// Anchors store plain file names while rows carry file IDs.
	names := make(map[string]string)
	for _, f := range dv.files {
		names[f.ID()] = f.Name
	}

	for _, r := range dv.flat {
		switch r.Kind {
		case rows.HunkHeader:
			if a, ok := byHunk[r.HunkID]; ok {
				dv.markers[r.Index] = append(dv.markers[r.Index], a)
			}
		case rows.Content:
			name := names[r.FileID]
			if r.NewLine > 0 {
				if a, ok := byLine[lineKey{name, comments.NewSide, r.NewLine}]; ok {
					dv.markers[r.Index] = append(dv.markers[r.Index], a)
				}
			}
			if r.OldLine > 0 {
				if a, ok := byLine[lineKey{name, comments.OldSide, r.OldLine}]; ok {
					dv.markers[r.Index] = append(dv.markers[r.Index], a)
				}
			}
		}
	}
}

// SetWrap toggles word wrapping of long content rows
func (dv *DiffView) SetWrap(wrap bool) {
	if dv.wrap == wrap {
		return
	}
	dv.wrap = wrap
	dv.rebuildDisplay()
}

// Resize updates the viewport dimensions
func (dv *DiffView) Resize(width, height int) {
	if width == dv.width && height == dv.height {
		return
	}
	dv.width = width
	dv.height = height
	dv.rebuildDisplay()
}

// rebuildDisplay recomputes the display rows from the flat rows,
// applying wrap when enabled, and clamps the viewport
func (dv *DiffView) rebuildDisplay() {
	if dv.wrap && dv.width > gutterWidth {
		dv.display = rows.Wrap(dv.flat, dv.width-gutterWidth)
	} else {
		dv.display = dv.flat
	}

	// Continuation sub-rows have LineStart > 0; every other display row
	// advances to the next flat row.
	dv.toFlat = make([]int, len(dv.display))
	flat := -1
	for i, r := range dv.display {
		if r.Kind != rows.Content || r.LineStart == 0 {
			flat++
		}
		dv.toFlat[i] = flat
	}
	dv.clamp()
}

// flatIndex maps a display row position back to its flat row
func (dv *DiffView) flatIndex(displayIdx int) int {
	if displayIdx < 0 || displayIdx >= len(dv.toFlat) {
		return -1
	}
	return dv.toFlat[displayIdx]
}

// RowCount returns the number of display rows
func (dv *DiffView) RowCount() int {
	return len(dv.display)
}

// CurrentRow returns the row under the cursor
func (dv *DiffView) CurrentRow() (rows.Row, bool) {
	if dv.cursor < 0 || dv.cursor >= len(dv.display) {
		return rows.Row{}, false
	}
	return dv.display[dv.cursor], true
}

// MoveCursor moves the cursor by delta rows, scrolling to keep it visible
func (dv *DiffView) MoveCursor(delta int) {
	dv.cursor += delta
	dv.clamp()
}

// PageDown moves the cursor down by a viewport height
func (dv *DiffView) PageDown() {
	dv.MoveCursor(dv.height)
}

// PageUp moves the cursor up by a viewport height
func (dv *DiffView) PageUp() {
	dv.MoveCursor(-dv.height)
}

// JumpToTop moves the cursor to the first row
func (dv *DiffView) JumpToTop() {
	dv.cursor = 0
	dv.clamp()
}

// JumpToBottom moves the cursor to the last row
func (dv *DiffView) JumpToBottom() {
	dv.cursor = len(dv.display) - 1
	dv.clamp()
}

// JumpToFile moves the cursor to the header row of the given file
func (dv *DiffView) JumpToFile(fileID string) {
	for i, r := range dv.display {
		if r.Kind == rows.FileHeader && r.FileID == fileID {
			dv.cursor = i
			dv.clamp()
			return
		}
	}
}

// NextFile moves the cursor to the next file header after the cursor
func (dv *DiffView) NextFile() {
	for i := dv.cursor + 1; i < len(dv.display); i++ {
		if dv.display[i].Kind == rows.FileHeader {
			dv.cursor = i
			dv.clamp()
			return
		}
	}
}

// PrevFile moves the cursor to the previous file header before the cursor
func (dv *DiffView) PrevFile() {
	for i := dv.cursor - 1; i >= 0; i-- {
		if dv.display[i].Kind == rows.FileHeader {
			dv.cursor = i
			dv.clamp()
			return
		}
	}
}

// clamp keeps the cursor inside the row range and scrolls the
// viewport to follow it
func (dv *DiffView) clamp() {
	if dv.cursor < 0 {
		dv.cursor = 0
	}
	if dv.cursor >= len(dv.display) {
		dv.cursor = len(dv.display) - 1
	}
	if dv.cursor < 0 {
		dv.cursor = 0
	}

	if dv.height <= 0 {
		return
	}
	if dv.cursor < dv.scrollTop {
		dv.scrollTop = dv.cursor
	}
	if dv.cursor >= dv.scrollTop+dv.height {
		dv.scrollTop = dv.cursor - dv.height + 1
	}
	if dv.scrollTop < 0 {
		dv.scrollTop = 0
	}
}

// AnchorAtCursor builds a comment anchor for the row under the cursor.
// Hunk headers get hunk anchors; content rows get line anchors on the
// side the row belongs to. File header rows cannot carry comments.
func (dv *DiffView) AnchorAtCursor() (*comments.Anchor, bool) {
	flatIdx := dv.flatIndex(dv.cursor)
	if flatIdx < 0 {
		return nil, false
	}
	// Continuation sub-rows drop their line numbers; anchor on the
	// underlying flat row instead.
	r := dv.flat[flatIdx]

	switch r.Kind {
	case rows.HunkHeader:
		f, h := dv.findHunk(r.FileID, r.HunkID)
		if f == nil {
			return nil, false
		}
		return comments.NewHunkAnchor(f, h), true
	case rows.Content:
		f := dv.findFile(r.FileID)
		if f == nil {
			return nil, false
		}
		side := comments.NewSide
		line := r.NewLine
		if r.Line == rows.DeletionLine {
			side = comments.OldSide
			line = r.OldLine
		}
		if line <= 0 {
			return nil, false
		}
		return comments.NewLineAnchor(f.Name, line, side, dv.contextAround(flatIdx)), true
	}
	return nil, false
}

// contextAround samples nearby content row text for a line anchor
func (dv *DiffView) contextAround(index int) []string {
	var ctx []string
	for i := index - 2; i <= index+3 && len(ctx) < comments.ContextLines; i++ {
		if i < 0 || i >= len(dv.flat) || i == index {
			continue
		}
		r := dv.flat[i]
		if r.Kind != rows.Content {
			continue
		}
		if t := strings.TrimSpace(r.Text); t != "" {
			ctx = append(ctx, t)
		}
	}
	return ctx
}

func (dv *DiffView) findFile(fileID string) *diffparse.File {
	for _, f := range dv.files {
		if f.ID() == fileID {
			return f
		}
	}
	return nil
}

func (dv *DiffView) findHunk(fileID, hunkID string) (*diffparse.File, *diffparse.Hunk) {
	f := dv.findFile(fileID)
	if f == nil {
		return nil, nil
	}
	for _, h := range f.Hunks {
		if h.ID(fileID) == hunkID {
			return f, h
		}
	}
	return nil, nil
}

// Prefetch queues tokenization for the viewport (high priority) and the
// overscan margin (low priority)
func (dv *DiffView) Prefetch() {
	if dv.height <= 0 {
		return
	}
	start, end := rows.VisibleRange(dv.scrollTop, dv.height, len(dv.display), dv.overscan)
	var high, low []highlight.Item
	for i := start; i < end; i++ {
		r := dv.flat[dv.toFlat[i]]
		if r.Kind != rows.Content {
			continue
		}
		lang := dv.languages[r.FileID]
		if lang == "" {
			continue
		}
		item := highlight.Item{Language: lang, Content: r.Text}
		if i >= dv.scrollTop && i < dv.scrollTop+dv.height {
			high = append(high, item)
		} else {
			low = append(low, item)
		}
	}
	dv.scheduler.Prefetch(high, highlight.High)
	dv.scheduler.Prefetch(low, highlight.Low)
}

// Render draws the viewport rows starting at screen row y
func (dv *DiffView) Render(screen *Screen, y, height int) {
	dv.Resize(screen.GetWidth(), height)
	dv.Prefetch()

	for i := 0; i < height; i++ {
		idx := dv.scrollTop + i
		if idx >= len(dv.display) {
			break
		}
		dv.renderRow(screen, y+i, idx, idx == dv.cursor)
	}
}

// renderRow draws one display row: gutter then content
func (dv *DiffView) renderRow(screen *Screen, y, idx int, selected bool) {
	r := dv.display[idx]
	base := dv.baseStyle(screen, r)
	if selected {
		base = base.Reverse(true)
		screen.FillLine(y, base)
	}

	dv.renderGutter(screen, y, idx, r, selected)

	x := gutterWidth
	switch r.Kind {
	case rows.FileHeader:
		screen.DrawStringLimited(x, y, r.Text, screen.GetWidth()-x, base)
	case rows.HunkHeader:
		screen.DrawStringLimited(x, y, r.Text, screen.GetWidth()-x, base)
	case rows.Content:
		dv.renderContent(screen, x, y, idx, r, base, selected)
	}
}

// renderGutter draws the marker column and the old/new line numbers
func (dv *DiffView) renderGutter(screen *Screen, y, idx int, r rows.Row, selected bool) {
	style := screen.LineNumberStyle()
	if selected {
		style = style.Reverse(true)
	}

	if anchors, ok := dv.markers[dv.toFlat[idx]]; ok && len(anchors) > 0 && r.LineStart == 0 {
		marker := screen.CommentMarkerStyle()
		if allStale(anchors) {
			marker = screen.StaleCommentStyle()
		}
		if selected {
			marker = marker.Reverse(true)
		}
		screen.SetCell(0, y, '●', marker)
	}

	if r.Kind != rows.Content {
		return
	}

	oldNum, newNum := "", ""
	if r.OldLine > 0 {
		oldNum = fmt.Sprintf("%d", r.OldLine)
	}
	if r.NewLine > 0 {
		newNum = fmt.Sprintf("%d", r.NewLine)
	}
	screen.DrawString(1, y, fmt.Sprintf("%4s %4s ", oldNum, newNum), style)
}

// renderContent draws a content row with word diff segments when the row
// belongs to a paired edit, falling back to syntax tokens otherwise
func (dv *DiffView) renderContent(screen *Screen, x, y, idx int, r rows.Row, base tcell.Style, selected bool) {
	width := screen.GetWidth() - x
	if width <= 0 {
		return
	}

	flatIdx := dv.toFlat[idx]
	segs := dv.segmentsFor(flatIdx, r)
	if segs != nil {
		dv.drawSegments(screen, x, y, width, segs, base)
		return
	}

	// Tokens are cached against the full line; wrap sub-rows slice
	// into them via LineStart and LineLength.
	full := dv.flat[flatIdx].Text
	lang := dv.languages[r.FileID]
	tokens, ok := dv.scheduler.Get(highlight.Item{Language: lang, Content: full})
	if !ok || selected {
		// Not tokenized yet, or the reverse video cursor row where
		// per-token colors would fight the selection
		screen.DrawStringLimited(x, y, r.Text, width, base)
		return
	}

	dv.drawTokens(screen, x, y, width, tokens, r, base)
}

// segmentsFor returns the word diff segments for a row, sliced for wrap
func (dv *DiffView) segmentsFor(flatIdx int, r rows.Row) []worddiff.Segment {
	segs, ok := dv.wordSegs[flatIdx]
	if !ok {
		return nil
	}
	if r.LineLength == 0 {
		return segs
	}
	return sliceSegments(segs, r.LineStart, r.LineLength)
}

// drawSegments renders word diff segments with add/remove emphasis
func (dv *DiffView) drawSegments(screen *Screen, x, y, width int, segs []worddiff.Segment, base tcell.Style) {
	col := x
	for _, seg := range segs {
		style := base
		switch seg.Kind {
		case worddiff.Added:
			style = screen.WordAdditionStyle()
		case worddiff.Removed:
			style = screen.WordDeletionStyle()
		}
		for _, ch := range seg.Text {
			if col >= x+width {
				return
			}
			screen.SetCell(col, y, ch, style)
			col += RuneWidth(ch)
		}
	}
}

// drawTokens renders syntax highlighted tokens over the base line style
func (dv *DiffView) drawTokens(screen *Screen, x, y, width int, tokens []highlight.Token, r rows.Row, base tcell.Style) {
	// Under wrap, tokens cover the full line; skip to this sub-row's slice.
	skip := r.LineStart
	remain := r.LineLength
	if remain == 0 && skip == 0 {
		remain = -1 // unwrapped, draw everything
	}

	col := x
	for _, tok := range tokens {
		style := screen.SyntaxStyle(tok.Class, base)
		for _, ch := range tok.Text {
			if skip > 0 {
				skip--
				continue
			}
			if remain == 0 || col >= x+width {
				return
			}
			if remain > 0 {
				remain--
			}
			screen.SetCell(col, y, ch, style)
			col += RuneWidth(ch)
		}
	}
}

// baseStyle returns the line style for a row kind
func (dv *DiffView) baseStyle(screen *Screen, r rows.Row) tcell.Style {
	switch r.Kind {
	case rows.FileHeader:
		return screen.FileHeaderStyle()
	case rows.HunkHeader:
		return screen.HunkHeaderStyle()
	}
	switch r.Line {
	case rows.AdditionLine:
		return screen.AdditionStyle()
	case rows.DeletionLine:
		return screen.DeletionStyle()
	default:
		return screen.ContextStyle()
	}
}

// sliceSegments cuts word diff segments down to a wrap sub-row window
func sliceSegments(segs []worddiff.Segment, start, length int) []worddiff.Segment {
	var out []worddiff.Segment
	pos := 0
	end := start + length
	for _, seg := range segs {
		runes := []rune(seg.Text)
		segEnd := pos + len(runes)
		if segEnd <= start || pos >= end {
			pos = segEnd
			continue
		}
		from := 0
		if pos < start {
			from = start - pos
		}
		to := len(runes)
		if segEnd > end {
			to = end - pos
		}
		out = append(out, worddiff.Segment{Kind: seg.Kind, Text: string(runes[from:to])})
		pos = segEnd
	}
	return out
}

func allStale(anchors []*comments.Anchor) bool {
	for _, a := range anchors {
		if !a.Stale {
			return false
		}
	}
	return true
}

// buildWordSegments walks the files in flatten order and computes word
// level segments for blocks that pair exactly one deletion with exactly
// one addition. The index counter mirrors the order used by the flattener
// so segments land on the right rows.
func buildWordSegments(files []*diffparse.File) map[int][]worddiff.Segment {
	segs := make(map[int][]worddiff.Segment)
	idx := 0
	for _, f := range files {
		idx++ // file header
		for _, h := range f.Hunks {
			idx++ // hunk header
			for _, b := range h.Blocks {
				idx += len(b.Context)
				if worddiff.ShouldCompute(len(b.Deletions), len(b.Additions)) {
					res := worddiff.Compute(b.Deletions[0], b.Additions[0])
					segs[idx] = res.Old
					segs[idx+1] = res.New
				}
				idx += len(b.Deletions) + len(b.Additions)
			}
		}
	}
	return segs
}
