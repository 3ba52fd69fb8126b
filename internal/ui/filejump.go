package ui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FileEntry is one selectable file in the jump palette
type FileEntry struct {
	ID    string // stable file identity used for the jump
	Label string // display text, usually the header text
}

// FileJumpWidget is a modal fuzzy finder over the files of the diff
type FileJumpWidget struct {
	visible     bool
	query       string
	allFiles    []FileEntry
	matches     []FileEntry
	selectedIdx int
	cursorPos   int
	maxResults  int
	onSelect    func(fileID string)
}

// NewFileJumpWidget creates a hidden file jump palette
func NewFileJumpWidget() *FileJumpWidget {
	return &FileJumpWidget{
		maxResults: 10,
	}
}

// SetFiles replaces the candidate files
func (w *FileJumpWidget) SetFiles(files []FileEntry) {
	w.allFiles = files
	w.updateMatches()
}

// SetOnSelect registers the jump callback
func (w *FileJumpWidget) SetOnSelect(onSelect func(fileID string)) {
	w.onSelect = onSelect
}

// Show opens the palette with an empty query
func (w *FileJumpWidget) Show() {
	w.visible = true
	w.query = ""
	w.cursorPos = 0
	w.selectedIdx = 0
	w.updateMatches()
}

// Hide closes the palette
func (w *FileJumpWidget) Hide() {
	w.visible = false
}

// IsVisible returns whether the palette is open
func (w *FileJumpWidget) IsVisible() bool {
	return w.visible
}

// updateMatches reranks the files against the current query
func (w *FileJumpWidget) updateMatches() {
	w.selectedIdx = 0

	if w.query == "" {
		// Empty query lists every file in diff order.
		w.matches = w.allFiles
		if len(w.matches) > w.maxResults {
			w.matches = w.matches[:w.maxResults]
		}
		return
	}

	labels := make([]string, len(w.allFiles))
	for i, f := range w.allFiles {
		labels[i] = f.Label
	}

	ranks := fuzzy.RankFindNormalizedFold(w.query, labels)
	sort.Sort(ranks)

	w.matches = nil
	for _, r := range ranks {
		w.matches = append(w.matches, w.allFiles[r.OriginalIndex])
		if len(w.matches) >= w.maxResults {
			break
		}
	}
}

// HandleKeyEvent processes keyboard input while the palette is open
func (w *FileJumpWidget) HandleKeyEvent(ev *tcell.EventKey) bool {
	if !w.visible {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		w.Hide()
		return true

	case tcell.KeyEnter:
		if len(w.matches) > 0 && w.selectedIdx < len(w.matches) {
			selected := w.matches[w.selectedIdx]
			w.Hide()
			if w.onSelect != nil {
				w.onSelect(selected.ID)
			}
		}
		return true

	case tcell.KeyCtrlN, tcell.KeyDown:
		if len(w.matches) > 0 {
			w.selectedIdx++
			if w.selectedIdx >= len(w.matches) {
				w.selectedIdx = 0 // Wrap to top
			}
		}
		return true

	case tcell.KeyCtrlP, tcell.KeyUp:
		if len(w.matches) > 0 {
			w.selectedIdx--
			if w.selectedIdx < 0 {
				w.selectedIdx = len(w.matches) - 1 // Wrap to bottom
			}
		}
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if w.cursorPos > 0 {
			w.query = w.query[:w.cursorPos-1] + w.query[w.cursorPos:]
			w.cursorPos--
			w.updateMatches()
		}
		return true

	case tcell.KeyLeft:
		if w.cursorPos > 0 {
			w.cursorPos--
		}
		return true

	case tcell.KeyRight:
		if w.cursorPos < len(w.query) {
			w.cursorPos++
		}
		return true

	default:
		ch := ev.Rune()
		if ch > 0 && ch != 27 {
			s := string(ch)
			w.query = w.query[:w.cursorPos] + s + w.query[w.cursorPos:]
			w.cursorPos += len(s)
			w.updateMatches()
			return true
		}
	}

	return false
}

// Render draws the palette as a centered modal box
func (w *FileJumpWidget) Render(screen *Screen) {
	if !w.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()

	boxWidth := (width * 2) / 3
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	boxHeight := w.maxResults + 4
	if boxHeight > height-2 {
		boxHeight = height - 2
	}
	startX := (width - boxWidth) / 2
	startY := (height - boxHeight) / 2

	if boxWidth < 10 || boxHeight < 4 {
		return
	}

	drawBox(screen, startX, startY, boxWidth, boxHeight, screen.JumpTextStyle())

	title := " Jump to file "
	screen.DrawStringLimited(startX+2, startY, title, boxWidth-4, screen.JumpPromptStyle())

	// Input line
	prompt := "> "
	screen.DrawString(startX+1, startY+1, prompt, screen.JumpPromptStyle())
	screen.DrawStringLimited(startX+1+len(prompt), startY+1, w.query, boxWidth-2-len(prompt), screen.JumpTextStyle())

	// Result rows
	for i, m := range w.matches {
		y := startY + 2 + i
		if y >= startY+boxHeight-1 {
			break
		}
		style := screen.JumpTextStyle()
		if i == w.selectedIdx {
			style = screen.JumpSelectedStyle()
		}
		screen.DrawStringLimited(startX+2, y, m.Label, boxWidth-4, style)
	}

	if len(w.matches) == 0 && w.query != "" {
		screen.DrawStringLimited(startX+2, startY+2, "no matches", boxWidth-4, screen.JumpTextStyle())
	}

	// Footer with result count
	footer := fmt.Sprintf(" %d/%d ", len(w.matches), len(w.allFiles))
	screen.DrawStringLimited(startX+2, startY+boxHeight-1, footer, boxWidth-4, screen.JumpPromptStyle())
}

// drawBox draws a simple box border
func drawBox(screen *Screen, x, y, width, height int, style tcell.Style) {
	screen.SetCell(x, y, '┌', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y, '─', style)
	}
	screen.SetCell(x+width-1, y, '┐', style)

	screen.SetCell(x, y+height-1, '└', style)
	for i := 1; i < width-1; i++ {
		screen.SetCell(x+i, y+height-1, '─', style)
	}
	screen.SetCell(x+width-1, y+height-1, '┘', style)

	for i := 1; i < height-1; i++ {
		screen.SetCell(x, y+i, '│', style)
		screen.SetCell(x+width-1, y+i, '│', style)
	}
}
