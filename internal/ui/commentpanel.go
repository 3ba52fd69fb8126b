package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/revtui/revtui/internal/comments"
)

// CommentPanel is a modal overlay listing the comment threads attached
// to the row under the cursor.
type CommentPanel struct {
	visible      bool
	anchors      []*comments.Anchor
	scrollOffset int
	maxHeight    int
}

// NewCommentPanel creates a hidden comment panel
func NewCommentPanel() *CommentPanel {
	return &CommentPanel{}
}

// Show opens the panel over the given anchors
func (p *CommentPanel) Show(anchors []*comments.Anchor) {
	p.anchors = anchors
	p.scrollOffset = 0
	p.visible = true
}

// Hide closes the panel
func (p *CommentPanel) Hide() {
	p.visible = false
}

// IsVisible returns whether the panel is open
func (p *CommentPanel) IsVisible() bool {
	return p.visible
}

// HandleKeyEvent processes keyboard input while the panel is open
func (p *CommentPanel) HandleKeyEvent(ev *tcell.EventKey) bool {
	if !p.visible {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		p.Hide()
		return true
	case tcell.KeyUp, tcell.KeyCtrlP:
		if p.scrollOffset > 0 {
			p.scrollOffset--
		}
		return true
	case tcell.KeyDown, tcell.KeyCtrlN:
		p.scrollOffset++
		return true
	}

	if ev.Rune() == 'q' {
		p.Hide()
		return true
	}
	return true // modal: swallow everything else
}

// lines flattens the anchors into display lines
func (p *CommentPanel) lines() []string {
	var out []string
	for _, a := range p.anchors {
		head := fmt.Sprintf("%s:%d", a.File, a.Line)
		if a.Kind == comments.AnchorHunk {
			head = a.ID
		}
		if a.Stale {
			head += " (outdated)"
		}
		out = append(out, head)
		for _, e := range a.Entries {
			when := e.CreatedAt.Format("2006-01-02 15:04")
			prefix := "  "
			if e.ReplyTo != "" {
				prefix = "    ↳ "
			}
			out = append(out, fmt.Sprintf("%s%s (%s)", prefix, e.Author, when))
			out = append(out, prefix+e.Text)
		}
		out = append(out, "")
	}
	return out
}

// Render draws the panel as a centered modal box
func (p *CommentPanel) Render(screen *Screen) {
	if !p.visible {
		return
	}

	width := screen.GetWidth()
	height := screen.GetHeight()

	boxWidth := (width * 3) / 4
	boxHeight := height / 2
	if boxWidth < 20 || boxHeight < 5 {
		return
	}
	startX := (width - boxWidth) / 2
	startY := (height - boxHeight) / 2
	p.maxHeight = boxHeight - 2

	style := screen.ContextStyle()
	for y := startY; y < startY+boxHeight; y++ {
		for x := startX; x < startX+boxWidth; x++ {
			screen.SetCell(x, y, ' ', style)
		}
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, style)
	screen.DrawStringLimited(startX+2, startY, " Comments ", boxWidth-4, screen.FileHeaderStyle())

	lines := p.lines()
	maxScroll := len(lines) - p.maxHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollOffset > maxScroll {
		p.scrollOffset = maxScroll
	}

	for i := 0; i < p.maxHeight; i++ {
		idx := p.scrollOffset + i
		if idx >= len(lines) {
			break
		}
		lineStyle := style
		if la := p.anchorForLine(idx); la != nil && la.Stale {
			lineStyle = screen.StaleCommentStyle()
		}
		screen.DrawStringLimited(startX+2, startY+1+i, lines[idx], boxWidth-4, lineStyle)
	}
}

// anchorForLine finds which anchor a display line belongs to, so stale
// threads render dimmed as a whole
func (p *CommentPanel) anchorForLine(line int) *comments.Anchor {
	pos := 0
	for _, a := range p.anchors {
		span := 1 + 2*len(a.Entries) + 1
		if line < pos+span {
			return a
		}
		pos += span
	}
	return nil
}
