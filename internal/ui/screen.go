package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/revtui/revtui/internal/highlight"
	"github.com/revtui/revtui/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a new Screen instance with a specific theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Suspend releases terminal control temporarily
func (s *Screen) Suspend() error {
	return s.tcellScreen.Suspend()
}

// Resume restores terminal control after suspension
func (s *Screen) Resume() error {
	return s.tcellScreen.Resume()
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position with the given style
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		s.SetCell(col, y, r, style)
		col += RuneWidth(r)
	}
}

// DrawStringLimited draws a string, truncating it if it exceeds maxWidth
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) {
	if maxWidth <= 0 {
		return
	}
	s.DrawString(x, y, TruncateToWidth(text, maxWidth), style)
}

// FillLine fills a whole row with the given style
func (s *Screen) FillLine(y int, style tcell.Style) {
	for x := 0; x < s.width; x++ {
		s.SetCell(x, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	w, h := s.tcellScreen.Size()
	s.width = w
	s.height = h
	return w, h
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// DefaultStyle returns the default terminal style
func DefaultStyle() tcell.Style {
	return tcell.StyleDefault
}

// Theme-aware style methods

// ContextStyle returns the style for unchanged diff lines
func (s *Screen) ContextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.Context)
}

// AdditionStyle returns the style for added diff lines
func (s *Screen) AdditionStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.Addition)
}

// DeletionStyle returns the style for deleted diff lines
func (s *Screen) DeletionStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.Deletion)
}

// WordAdditionStyle returns the style for intra-line added segments
func (s *Screen) WordAdditionStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.WordAddition).Bold(true)
}

// WordDeletionStyle returns the style for intra-line removed segments
func (s *Screen) WordDeletionStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.WordDeletion).Bold(true).StrikeThrough(true)
}

// FileHeaderStyle returns the style for file header rows
func (s *Screen) FileHeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.FileHeader).Bold(true)
}

// HunkHeaderStyle returns the style for hunk header rows
func (s *Screen) HunkHeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.HunkHeader)
}

// LineNumberStyle returns the style for the line number gutter
func (s *Screen) LineNumberStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.LineNumber)
}

// SelectedRowStyle returns the style for the cursor row
func (s *Screen) SelectedRowStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.SelectedRow).Reverse(true)
}

// CommentMarkerStyle returns the gutter style for rows carrying comments
func (s *Screen) CommentMarkerStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.CommentMarker).Bold(true)
}

// StaleCommentStyle returns the style for comments that lost their anchor
func (s *Screen) StaleCommentStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StaleComment).Dim(true)
}

// SyntaxStyle returns the style for a token class on top of a base line style
func (s *Screen) SyntaxStyle(class highlight.Class, base tcell.Style) tcell.Style {
	switch class {
	case highlight.ClassKeyword:
		return base.Foreground(s.Theme.Colors.SyntaxKeyword)
	case highlight.ClassString:
		return base.Foreground(s.Theme.Colors.SyntaxString)
	case highlight.ClassNumber:
		return base.Foreground(s.Theme.Colors.SyntaxNumber)
	case highlight.ClassComment:
		return base.Foreground(s.Theme.Colors.SyntaxComment)
	case highlight.ClassFunction:
		return base.Foreground(s.Theme.Colors.SyntaxFunction)
	case highlight.ClassOperator:
		return base.Foreground(s.Theme.Colors.SyntaxOperator)
	default:
		return base
	}
}

// JumpPromptStyle returns the style for the file jump prompt
func (s *Screen) JumpPromptStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.JumpPrompt)
}

// JumpTextStyle returns the style for file jump entries
func (s *Screen) JumpTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.JumpText)
}

// JumpMatchStyle returns the style for matched characters in file jump entries
func (s *Screen) JumpMatchStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.JumpMatch).Bold(true)
}

// JumpSelectedStyle returns the style for the selected file jump entry
func (s *Screen) JumpSelectedStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.JumpSelected).Reverse(true)
}

// InputPromptStyle returns the style for the comment input prompt
func (s *Screen) InputPromptStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.InputPrompt)
}

// InputTextStyle returns the style for comment input text
func (s *Screen) InputTextStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.InputText)
}

// InputCursorStyle returns the style for the comment input cursor
func (s *Screen) InputCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.InputCursor).Reverse(true)
}

// StatusModeStyle returns the style for mode indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMode).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusMessage)
}

// StatusErrorStyle returns the style for error messages
func (s *Screen) StatusErrorStyle() tcell.Style {
	return theme.ColorToStyle(s.Theme.Colors.StatusError).Bold(true)
}
