package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Message represents a status message with timestamp
type Message struct {
	Text      string
	Timestamp time.Time
}

// MessageLogger tracks the last N status messages so the user can see
// what happened after a transient message expired from the status line.
type MessageLogger struct {
	messages []*Message
	maxSize  int
	mu       sync.Mutex
}

// NewMessageLogger creates a new message logger with the specified max size
func NewMessageLogger(maxSize int) *MessageLogger {
	return &MessageLogger{
		messages: make([]*Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// AddMessage adds a new status message to the history
func (ml *MessageLogger) AddMessage(text string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if text == "" {
		return
	}

	ml.messages = append(ml.messages, &Message{
		Text:      text,
		Timestamp: time.Now(),
	})

	if len(ml.messages) > ml.maxSize {
		ml.messages = ml.messages[len(ml.messages)-ml.maxSize:]
	}
}

// GetMessages returns a copy of all messages in chronological order
func (ml *MessageLogger) GetMessages() []*Message {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	result := make([]*Message, len(ml.messages))
	copy(result, ml.messages)
	return result
}

// Count returns the number of messages in the logger
func (ml *MessageLogger) Count() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.messages)
}

// MessageOverlay is a modal listing the logged status messages, oldest
// first, for reviewing what scrolled past the status line.
type MessageOverlay struct {
	visible      bool
	logger       *MessageLogger
	scrollOffset int
	maxHeight    int
}

// NewMessageOverlay creates a hidden overlay over the given logger
func NewMessageOverlay(logger *MessageLogger) *MessageOverlay {
	return &MessageOverlay{logger: logger}
}

// Show opens the overlay scrolled to the newest message
func (o *MessageOverlay) Show() {
	o.scrollOffset = o.logger.Count() // clamped during render
	o.visible = true
}

// Hide closes the overlay
func (o *MessageOverlay) Hide() {
	o.visible = false
}

// IsVisible returns whether the overlay is open
func (o *MessageOverlay) IsVisible() bool {
	return o.visible
}

// HandleKeyEvent processes keyboard input while the overlay is open
func (o *MessageOverlay) HandleKeyEvent(ev *tcell.EventKey) bool {
	if !o.visible {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		o.Hide()
		return true
	case tcell.KeyUp, tcell.KeyCtrlP:
		if o.scrollOffset > 0 {
			o.scrollOffset--
		}
		return true
	case tcell.KeyDown, tcell.KeyCtrlN:
		o.scrollOffset++
		return true
	}

	switch ev.Rune() {
	case 'q', 'm':
		o.Hide()
	}
	return true // modal: swallow everything else
}

// Render draws the overlay as a centered modal box
func (o *MessageOverlay) Render(screen *Screen) {
	if !o.visible {
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
	o.maxHeight = boxHeight - 2

	style := screen.ContextStyle()
	for y := startY; y < startY+boxHeight; y++ {
		for x := startX; x < startX+boxWidth; x++ {
			screen.SetCell(x, y, ' ', style)
		}
	}
	drawBox(screen, startX, startY, boxWidth, boxHeight, style)
	screen.DrawStringLimited(startX+2, startY, " Messages ", boxWidth-4, screen.FileHeaderStyle())

	msgs := o.logger.GetMessages()
	maxScroll := len(msgs) - o.maxHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if o.scrollOffset > maxScroll {
		o.scrollOffset = maxScroll
	}

	for i := 0; i < o.maxHeight; i++ {
		idx := o.scrollOffset + i
		if idx >= len(msgs) {
			break
		}
		line := msgs[idx].Timestamp.Format("15:04:05") + "  " + msgs[idx].Text
		screen.DrawStringLimited(startX+2, startY+1+i, line, boxWidth-4, style)
	}
}
