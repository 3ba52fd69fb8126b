package app

import (
	"github.com/revtui/revtui/internal/ui"
)

// KeyBinding represents a key binding with its description and handler
type KeyBinding struct {
	Key         rune
	Description string
	Handler     func(*App)
}

// GetKey returns the key of this keybinding
func (kb *KeyBinding) GetKey() rune {
	return kb.Key
}

// GetDescription returns the description of this keybinding
func (kb *KeyBinding) GetDescription() string {
	return kb.Description
}

// InitializeKeybindings sets up all the key bindings
func (a *App) InitializeKeybindings() []KeyBinding {
	return []KeyBinding{
		{
			Key:         'j',
			Description: "Move down",
			Handler: func(app *App) {
				app.view.MoveCursor(1)
			},
		},
		{
			Key:         'k',
			Description: "Move up",
			Handler: func(app *App) {
				app.view.MoveCursor(-1)
			},
		},
		{
			Key:         'g',
			Description: "Jump to top",
			Handler: func(app *App) {
				app.view.JumpToTop()
			},
		},
		{
			Key:         'G',
			Description: "Jump to bottom",
			Handler: func(app *App) {
				app.view.JumpToBottom()
			},
		},
		{
			Key:         'n',
			Description: "Next file",
			Handler: func(app *App) {
				app.view.NextFile()
			},
		},
		{
			Key:         'p',
			Description: "Previous file",
			Handler: func(app *App) {
				app.view.PrevFile()
			},
		},
		{
			Key:         'f',
			Description: "Jump to file",
			Handler: func(app *App) {
				app.jump.Show()
			},
		},
		{
			Key:         'c',
			Description: "Comment on current row",
			Handler: func(app *App) {
				app.startComment()
			},
		},
		{
			Key:         'r',
			Description: "Reply to comment",
			Handler: func(app *App) {
				app.startReply()
			},
		},
		{
			Key:         'x',
			Description: "Delete newest comment here",
			Handler: func(app *App) {
				app.deleteComment()
			},
		},
		{
			Key:         'v',
			Description: "View comments",
			Handler: func(app *App) {
				app.openComments()
			},
		},
		{
			Key:         'w',
			Description: "Toggle wrap",
			Handler: func(app *App) {
				app.toggleWrap()
			},
		},
		{
			Key:         'm',
			Description: "Message history",
			Handler: func(app *App) {
				app.msgLog.Show()
			},
		},
		{
			Key:         'R',
			Description: "Reload diff",
			Handler: func(app *App) {
				app.reload()
			},
		},
		{
			Key:         '?',
			Description: "Toggle help",
			Handler: func(app *App) {
				app.help.Toggle()
			},
		},
		{
			Key:         'q',
			Description: "Quit",
			Handler: func(app *App) {
				app.quit = true
			},
		},
	}
}

// keybindingInfos adapts the bindings for the help overlay
func keybindingInfos(bindings []KeyBinding) []ui.KeyBindingInfo {
	infos := make([]ui.KeyBindingInfo, len(bindings))
	for i := range bindings {
		infos[i] = &bindings[i]
	}
	return infos
}
