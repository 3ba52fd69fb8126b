package theme

import (
	"github.com/gdamore/tcell/v2"
)

// Colors holds all the color definitions for the theme
type Colors struct {
	// Diff view colors
	Context       tcell.Color
	Addition      tcell.Color
	Deletion      tcell.Color
	WordAddition  tcell.Color
	WordDeletion  tcell.Color
	FileHeader    tcell.Color
	HunkHeader    tcell.Color
	LineNumber    tcell.Color
	SelectedRow   tcell.Color
	CommentMarker tcell.Color
	StaleComment  tcell.Color

	// Syntax highlighting colors
	SyntaxKeyword  tcell.Color
	SyntaxString   tcell.Color
	SyntaxNumber   tcell.Color
	SyntaxComment  tcell.Color
	SyntaxFunction tcell.Color
	SyntaxOperator tcell.Color

	// File jump palette colors
	JumpPrompt   tcell.Color
	JumpText     tcell.Color
	JumpMatch    tcell.Color
	JumpSelected tcell.Color

	// Comment input colors
	InputPrompt tcell.Color
	InputText   tcell.Color
	InputCursor tcell.Color

	// Status line colors
	StatusMode    tcell.Color
	StatusMessage tcell.Color
	StatusError   tcell.Color
}

// Theme represents a complete color theme
type Theme struct {
	Name   string
	Colors Colors
}

// Default returns a default theme using terminal defaults
func Default() *Theme {
	return &Theme{
		Name: "default",
		Colors: Colors{
			Context:        tcell.ColorDefault,
			Addition:       tcell.ColorGreen,
			Deletion:       tcell.ColorRed,
			WordAddition:   tcell.ColorGreen,
			WordDeletion:   tcell.ColorRed,
			FileHeader:     tcell.ColorDefault,
			HunkHeader:     tcell.ColorTeal,
			LineNumber:     tcell.ColorGray,
			SelectedRow:    tcell.ColorDefault,
			CommentMarker:  tcell.ColorYellow,
			StaleComment:   tcell.ColorGray,
			SyntaxKeyword:  tcell.ColorDefault,
			SyntaxString:   tcell.ColorDefault,
			SyntaxNumber:   tcell.ColorDefault,
			SyntaxComment:  tcell.ColorGray,
			SyntaxFunction: tcell.ColorDefault,
			SyntaxOperator: tcell.ColorDefault,
			JumpPrompt:     tcell.ColorDefault,
			JumpText:       tcell.ColorDefault,
			JumpMatch:      tcell.ColorTeal,
			JumpSelected:   tcell.ColorDefault,
			InputPrompt:    tcell.ColorDefault,
			InputText:      tcell.ColorDefault,
			InputCursor:    tcell.ColorDefault,
			StatusMode:     tcell.ColorDefault,
			StatusMessage:  tcell.ColorDefault,
			StatusError:    tcell.ColorRed,
		},
	}
}

// TokyoNight returns the Tokyo Night theme
func TokyoNight() *Theme {
	return &Theme{
		Name: "tokyo-night",
		Colors: Colors{
			// Tokyo Night palette
			Context:        HexToColor("#c0caf5"), // Light gray-blue
			Addition:       HexToColor("#9ece6a"), // Green
			Deletion:       HexToColor("#f7768e"), // Red
			WordAddition:   HexToColor("#73daca"), // Bright teal
			WordDeletion:   HexToColor("#ff9e64"), // Orange
			FileHeader:     HexToColor("#bb9af7"), // Magenta
			HunkHeader:     HexToColor("#7dcfff"), // Cyan
			LineNumber:     HexToColor("#565f89"), // Comment gray
			SelectedRow:    HexToColor("#7aa2f7"), // Blue
			CommentMarker:  HexToColor("#e0af68"), // Yellow
			StaleComment:   HexToColor("#565f89"), // Comment gray
			SyntaxKeyword:  HexToColor("#bb9af7"), // Magenta
			SyntaxString:   HexToColor("#9ece6a"), // Green
			SyntaxNumber:   HexToColor("#ff9e64"), // Orange
			SyntaxComment:  HexToColor("#565f89"), // Comment gray
			SyntaxFunction: HexToColor("#7aa2f7"), // Blue
			SyntaxOperator: HexToColor("#89ddff"), // Light cyan
			JumpPrompt:     HexToColor("#bb9af7"), // Magenta
			JumpText:       HexToColor("#c0caf5"), // Light gray-blue
			JumpMatch:      HexToColor("#7dcfff"), // Cyan
			JumpSelected:   HexToColor("#7aa2f7"), // Blue
			InputPrompt:    HexToColor("#bb9af7"), // Magenta
			InputText:      HexToColor("#c0caf5"), // Light gray-blue
			InputCursor:    HexToColor("#7aa2f7"), // Blue
			StatusMode:     HexToColor("#bb9af7"), // Magenta
			StatusMessage:  HexToColor("#9ece6a"), // Green
			StatusError:    HexToColor("#f7768e"), // Red
		},
	}
}
