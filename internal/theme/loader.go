package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// ThemeConfig represents the raw TOML theme configuration
type ThemeConfig struct {
	Name   string `toml:"name"`
	Colors struct {
		Context       string `toml:"context"`
		Addition      string `toml:"addition"`
		Deletion      string `toml:"deletion"`
		WordAddition  string `toml:"word_addition"`
		WordDeletion  string `toml:"word_deletion"`
		FileHeader    string `toml:"file_header"`
		HunkHeader    string `toml:"hunk_header"`
		LineNumber    string `toml:"line_number"`
		SelectedRow   string `toml:"selected_row"`
		CommentMarker string `toml:"comment_marker"`
		StaleComment  string `toml:"stale_comment"`

		SyntaxKeyword  string `toml:"syntax_keyword"`
		SyntaxString   string `toml:"syntax_string"`
		SyntaxNumber   string `toml:"syntax_number"`
		SyntaxComment  string `toml:"syntax_comment"`
		SyntaxFunction string `toml:"syntax_function"`
		SyntaxOperator string `toml:"syntax_operator"`

		JumpPrompt   string `toml:"jump_prompt"`
		JumpText     string `toml:"jump_text"`
		JumpMatch    string `toml:"jump_match"`
		JumpSelected string `toml:"jump_selected"`

		InputPrompt string `toml:"input_prompt"`
		InputText   string `toml:"input_text"`
		InputCursor string `toml:"input_cursor"`

		StatusMode    string `toml:"status_mode"`
		StatusMessage string `toml:"status_message"`
		StatusError   string `toml:"status_error"`
	} `toml:"colors"`
}

// getThemePaths returns the search paths for theme files
func getThemePaths() []string {
	paths := []string{}

	// User config directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "revtui", "themes"))
	}

	// User local share directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "revtui", "themes"))
	}

	return paths
}

// findThemeFile searches for a theme file in standard locations
func findThemeFile(themeName string) (string, error) {
	filename := themeName + ".toml"

	for _, dir := range getThemePaths() {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("theme file not found: %s", filename)
}

// LoadThemeFromFile loads a theme from a TOML file
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var config ThemeConfig
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return configToTheme(config), nil
}

// LoadTheme loads a theme by name, searching standard theme directories
func LoadTheme(themeName string) (*Theme, error) {
	filePath, err := findThemeFile(themeName)
	if err != nil {
		return nil, err
	}

	return LoadThemeFromFile(filePath)
}

// setColor overrides dst when the config carries a value for it
func setColor(dst *tcell.Color, value string) {
	if value != "" {
		*dst = ParseColorString(value)
	}
}

// configToTheme converts a ThemeConfig to a Theme, with fallback to Tokyo Night for missing colors
func configToTheme(config ThemeConfig) *Theme {
	// Start with Tokyo Night as base
	t := TokyoNight()
	c := &t.Colors

	setColor(&c.Context, config.Colors.Context)
	setColor(&c.Addition, config.Colors.Addition)
	setColor(&c.Deletion, config.Colors.Deletion)
	setColor(&c.WordAddition, config.Colors.WordAddition)
	setColor(&c.WordDeletion, config.Colors.WordDeletion)
	setColor(&c.FileHeader, config.Colors.FileHeader)
	setColor(&c.HunkHeader, config.Colors.HunkHeader)
	setColor(&c.LineNumber, config.Colors.LineNumber)
	setColor(&c.SelectedRow, config.Colors.SelectedRow)
	setColor(&c.CommentMarker, config.Colors.CommentMarker)
	setColor(&c.StaleComment, config.Colors.StaleComment)
	setColor(&c.SyntaxKeyword, config.Colors.SyntaxKeyword)
	setColor(&c.SyntaxString, config.Colors.SyntaxString)
	setColor(&c.SyntaxNumber, config.Colors.SyntaxNumber)
	setColor(&c.SyntaxComment, config.Colors.SyntaxComment)
	setColor(&c.SyntaxFunction, config.Colors.SyntaxFunction)
	setColor(&c.SyntaxOperator, config.Colors.SyntaxOperator)
	setColor(&c.JumpPrompt, config.Colors.JumpPrompt)
	setColor(&c.JumpText, config.Colors.JumpText)
	setColor(&c.JumpMatch, config.Colors.JumpMatch)
	setColor(&c.JumpSelected, config.Colors.JumpSelected)
	setColor(&c.InputPrompt, config.Colors.InputPrompt)
	setColor(&c.InputText, config.Colors.InputText)
	setColor(&c.InputCursor, config.Colors.InputCursor)
	setColor(&c.StatusMode, config.Colors.StatusMode)
	setColor(&c.StatusMessage, config.Colors.StatusMessage)
	setColor(&c.StatusError, config.Colors.StatusError)

	if config.Name != "" {
		t.Name = config.Name
	}

	return t
}

// LoadThemeOrDefault loads a theme by name, or returns Tokyo Night if not found
func LoadThemeOrDefault(themeName string) *Theme {
	if themeName == "default" {
		return Default()
	}

	theme, err := LoadTheme(themeName)
	if err != nil {
		// Fall back to Tokyo Night
		return TokyoNight()
	}

	return theme
}
