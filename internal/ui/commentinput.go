package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// CommentInput manages the single line comment editor at the bottom of
// the screen. It is used both for new comments and for replies; the
// prompt tells the user which one they are writing.
type CommentInput struct {
	active    bool
	prompt    string
	input     string
	cursorPos int
}

// NewCommentInput creates an inactive comment input
func NewCommentInput() *CommentInput {
	return &CommentInput{}
}

// Start enters input mode with the given prompt
func (c *CommentInput) Start(prompt string) {
	c.active = true
	c.prompt = prompt
	c.input = ""
	c.cursorPos = 0
}

// Stop exits input mode
func (c *CommentInput) Stop() {
	c.active = false
}

// IsActive returns whether input mode is active
func (c *CommentInput) IsActive() bool {
	return c.active
}

// DeleteWordBackwards deletes the word before the cursor
func (c *CommentInput) DeleteWordBackwards() {
	if c.cursorPos == 0 {
		return
	}

	pos := c.cursorPos - 1

	// Skip any trailing whitespace
	for pos >= 0 && (c.input[pos] == ' ' || c.input[pos] == '\t') {
		pos--
	}

	// Skip the word characters
	for pos >= 0 && c.input[pos] != ' ' && c.input[pos] != '\t' {
		pos--
	}

	deleteStart := pos + 1
	c.input = c.input[:deleteStart] + c.input[c.cursorPos:]
	c.cursorPos = deleteStart
}

// HandleKey processes a key press. It returns the finished comment text
// and done=true when the user submits or cancels; cancelled input
// returns empty text.
func (c *CommentInput) HandleKey(ev *tcell.EventKey) (text string, done bool) {
	switch ev.Key() {
	case tcell.KeyCtrlW:
		c.DeleteWordBackwards()
	case tcell.KeyEscape:
		c.Stop()
		return "", true
	case tcell.KeyEnter:
		text := strings.TrimSpace(c.input)
		c.Stop()
		return text, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.cursorPos > 0 {
			// Delete the whole previous rune, which may span bytes
			runes := []rune(c.input[:c.cursorPos])
			removed := string(runes[len(runes)-1])
			c.input = c.input[:c.cursorPos-len(removed)] + c.input[c.cursorPos:]
			c.cursorPos -= len(removed)
		}
	case tcell.KeyLeft:
		if c.cursorPos > 0 {
			runes := []rune(c.input[:c.cursorPos])
			c.cursorPos -= len(string(runes[len(runes)-1]))
		}
	case tcell.KeyRight:
		if c.cursorPos < len(c.input) {
			r := []rune(c.input[c.cursorPos:])
			c.cursorPos += len(string(r[0]))
		}
	case tcell.KeyHome:
		c.cursorPos = 0
	case tcell.KeyEnd:
		c.cursorPos = len(c.input)
	default:
		ch := ev.Rune()
		if ch > 0 && ch != 27 {
			s := string(ch)
			c.input = c.input[:c.cursorPos] + s + c.input[c.cursorPos:]
			c.cursorPos += len(s)
		}
	}
	return "", false
}

// Render draws the input on the given screen row
func (c *CommentInput) Render(screen *Screen, y int) {
	if !c.active {
		return
	}

	screen.FillLine(y, DefaultStyle())
	screen.DrawString(0, y, c.prompt, screen.InputPromptStyle())

	x := StringWidth(c.prompt)
	screen.DrawString(x, y, c.input, screen.InputTextStyle())

	// Cursor cell
	cursorX := x + StringWidth(c.input[:c.cursorPos])
	cursorRune := ' '
	if c.cursorPos < len(c.input) {
		cursorRune = []rune(c.input[c.cursorPos:])[0]
	}
	screen.SetCell(cursorX, y, cursorRune, screen.InputCursorStyle())
}
