package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func typeInput(c *CommentInput, s string) {
	for _, r := range s {
		c.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func TestCommentInputSubmit(t *testing.T) {
	c := NewCommentInput()
	c.Start("Comment: ")
	typeInput(c, "  looks good  ")

	text, done := c.HandleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	if !done {
		t.Fatal("enter should finish input")
	}
	if text != "looks good" {
		t.Errorf("expected trimmed text, got %q", text)
	}
	if c.IsActive() {
		t.Error("input should deactivate after submit")
	}
}

func TestCommentInputEscapeCancels(t *testing.T) {
	c := NewCommentInput()
	c.Start("Comment: ")
	typeInput(c, "half written")

	text, done := c.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if !done || text != "" {
		t.Errorf("escape should cancel with empty text, got %q done=%v", text, done)
	}
}

func TestCommentInputBackspaceUTF8(t *testing.T) {
	c := NewCommentInput()
	c.Start("> ")
	typeInput(c, "héllo")

	c.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	c.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	c.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	c.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))

	if c.input != "h" {
		t.Errorf("expected %q, got %q", "h", c.input)
	}
}

func TestCommentInputDeleteWordBackwards(t *testing.T) {
	c := NewCommentInput()
	c.Start("> ")
	typeInput(c, "fix the parser")

	c.HandleKey(tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModNone))
	if c.input != "fix the " {
		t.Errorf("expected %q, got %q", "fix the ", c.input)
	}

	c.HandleKey(tcell.NewEventKey(tcell.KeyCtrlW, 0, tcell.ModNone))
	if c.input != "fix " {
		t.Errorf("expected %q, got %q", "fix ", c.input)
	}
}
