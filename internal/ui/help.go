package ui

import "fmt"

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{
		keybindings: []KeyBindingInfo{},
	}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// GetKeybindings returns a formatted list of keybindings
func (h *HelpScreen) GetKeybindings() []string {
	var result []string

	result = append(result, "Keybindings:")
	result = append(result, "")

	for _, kb := range h.keybindings {
		result = append(result, fmt.Sprintf("  %c  - %s", kb.GetKey(), kb.GetDescription()))
	}

	result = append(result, "")
	result = append(result, "Special Keys:")
	result = append(result, "  Ctrl+D/U    - Half page down/up")
	result = append(result, "  Enter       - Open comments on current row")
	result = append(result, "  Escape      - Close overlay / cancel input")
	result = append(result, "  Arrow Keys  - Navigate (alternative to j/k)")

	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.ContextStyle()
	borderStyle := screen.HunkHeaderStyle()
	titleStyle := screen.FileHeaderStyle()

	// Cover the whole screen so the diff does not bleed through
	for y := 0; y < screen.GetHeight(); y++ {
		for x := 0; x < screen.GetWidth(); x++ {
			screen.SetCell(x, y, ' ', contentStyle)
		}
	}

	startY := 2
	startX := 5
	boxWidth := screen.GetWidth() - 10
	height := screen.GetHeight() - 4
	if boxWidth < 20 || height < 6 {
		return
	}

	keybindings := h.GetKeybindings()

	screen.SetCell(startX, startY, '┌', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY, '┐', borderStyle)

	title := " Keybindings (? to close) "
	screen.SetCell(startX, startY+1, '│', borderStyle)
	screen.DrawString(startX+2, startY+1, title, titleStyle)
	screen.SetCell(startX+boxWidth-1, startY+1, '│', borderStyle)

	screen.SetCell(startX, startY+2, '├', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, startY+2, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, startY+2, '┤', borderStyle)

	y := startY + 3
	for _, binding := range keybindings {
		if y >= startY+height-1 {
			break
		}
		screen.SetCell(startX, y, '│', borderStyle)
		screen.DrawString(startX+2, y, binding, contentStyle)
		screen.SetCell(startX+boxWidth-1, y, '│', borderStyle)
		y++
	}

	screen.SetCell(startX, y, '└', borderStyle)
	for i := 1; i < boxWidth-1; i++ {
		screen.SetCell(startX+i, y, '─', borderStyle)
	}
	screen.SetCell(startX+boxWidth-1, y, '┘', borderStyle)
}
