package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/revtui/revtui/internal/comments"
	"github.com/revtui/revtui/internal/config"
	"github.com/revtui/revtui/internal/diffparse"
	"github.com/revtui/revtui/internal/highlight"
	"github.com/revtui/revtui/internal/theme"
	"github.com/revtui/revtui/internal/ui"
	"github.com/revtui/revtui/internal/vcs"
)

// App is the main application controller
type App struct {
	screen    *ui.Screen
	cfg       *config.Config
	backend   *vcs.Backend
	store     *comments.Store
	state     *comments.State
	revision  *comments.RevisionComments
	files     []*diffparse.File
	scheduler *highlight.Scheduler

	view   *ui.DiffView
	jump   *ui.FileJumpWidget
	input  *ui.CommentInput
	panel  *ui.CommentPanel
	help   *ui.HelpScreen
	msgLog *ui.MessageOverlay

	messages   *ui.MessageLogger
	statusMsg  string
	statusTime time.Time

	rev        string
	changeID   string
	commitHash string

	// pendingAnchor holds the anchor a comment being typed will attach to
	pendingAnchor *comments.Anchor
	replyTo       string

	mode  string // "NORMAL" or "COMMENT"
	quit  bool
	debug bool
}

// NewApp creates a new App instance for viewing the given revision
func NewApp(cfg *config.Config, backend *vcs.Backend, store *comments.Store, rev string) (*App, error) {
	t := theme.LoadThemeOrDefault(cfg.Theme)
	screen, err := ui.NewScreen(t)
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	scheduler := highlight.NewScheduler(cfg.TokenCacheSize)

	a := &App{
		screen:     screen,
		cfg:        cfg,
		backend:    backend,
		store:      store,
		scheduler:  scheduler,
		view:       ui.NewDiffView(scheduler, cfg.Overscan),
		jump:       ui.NewFileJumpWidget(),
		input:      ui.NewCommentInput(),
		panel:      ui.NewCommentPanel(),
		help:       ui.NewHelpScreen(),
		messages:   ui.NewMessageLogger(50),
		rev:        rev,
		statusMsg:  "Ready",
		statusTime: time.Now(),
		mode:       "NORMAL",
	}
	a.msgLog = ui.NewMessageOverlay(a.messages)
	a.help.SetKeybindings(keybindingInfos(a.InitializeKeybindings()))
	a.jump.SetOnSelect(func(fileID string) {
		a.view.JumpToFile(fileID)
	})

	if err := a.loadRevision(); err != nil {
		screen.Close()
		return nil, err
	}

	a.view.SetWrap(cfg.Wrap)
	return a, nil
}

// loadRevision fetches the diff for the current revision, rebuilds the
// view from it, and relocates stored comments if the revision's content
// hash moved since they were written.
func (a *App) loadRevision() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, err := a.backend.Diff(ctx, a.rev, nil)
	if err != nil {
		return fmt.Errorf("failed to read diff: %w", err)
	}
	a.files = diffparse.ParseTabs(text, a.cfg.TabWidth)

	a.changeID, err = a.backend.ChangeID(ctx, a.rev)
	if err != nil {
		return fmt.Errorf("failed to resolve change id: %w", err)
	}
	a.commitHash, err = a.backend.CommitHash(ctx, a.rev)
	if err != nil {
		return fmt.Errorf("failed to resolve commit hash: %w", err)
	}

	if a.state == nil {
		a.state, err = a.store.Load()
		if err != nil {
			return fmt.Errorf("failed to load comments: %w", err)
		}
	}
	a.revision = a.state.Revision(a.changeID)

	if a.revision.CommitHash != "" && a.revision.CommitHash != a.commitHash {
		if comments.RelocateRevision(a.revision, a.files, a.commitHash, a.policy()) {
			a.SetStatus("Comments relocated after rewrite")
			if err := a.store.Save(a.state); err != nil {
				log.Printf("save after relocation failed: %v", err)
			}
		}
	}
	a.revision.CommitHash = a.commitHash

	a.view.SetFiles(a.files)
	a.view.SetComments(a.revision)
	a.jump.SetFiles(a.fileEntries())
	return nil
}

// policy builds relocation scoring from config overrides on top of the
// stock constants
func (a *App) policy() comments.Policy {
	pol := comments.DefaultPolicy()
	r := a.cfg.Relocation
	if r.Threshold > 0 {
		pol.Threshold = r.Threshold
	}
	if r.ContextWeight > 0 {
		pol.ContextWeight = r.ContextWeight
	}
	if r.ProximityWeight > 0 {
		pol.ProximityWeight = r.ProximityWeight
	}
	if r.ProximityRange > 0 {
		pol.ProximityRange = r.ProximityRange
	}
	return pol
}

func (a *App) fileEntries() []ui.FileEntry {
	entries := make([]ui.FileEntry, 0, len(a.files))
	for _, f := range a.files {
		label := f.Name
		if f.PrevName != "" {
			label = f.PrevName + " -> " + f.Name
		}
		entries = append(entries, ui.FileEntry{ID: f.ID(), Label: label})
	}
	return entries
}

// SetDebug enables key event diagnostics in the status line
func (a *App) SetDebug(debug bool) {
	a.debug = debug
}

// SetStatus sets a transient status message
func (a *App) SetStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
	a.messages.AddMessage(msg)
}

// Run starts the main event loop
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)

	go func() {
		for {
			event := a.screen.PollEvent()
			eventChan <- event
			if event == nil {
				break
			}
		}
	}()

	// The ticker drives rendering and gives the tokenizer its time
	// slices between input events.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev != nil {
				a.handleRawEvent(ev)
			}
		case <-ticker.C:
			a.scheduler.Step()
			a.render()
		}
	}

	return nil
}

// Close closes the application
func (a *App) Close() error {
	if a.screen != nil {
		return a.screen.Close()
	}
	return nil
}

// save persists the comment state, reporting failures in the status line
func (a *App) save() {
	if err := a.store.Save(a.state); err != nil {
		a.SetStatus("Failed to save comments: " + err.Error())
		log.Printf("comment save failed: %v", err)
	}
}

// render renders the current state to the screen
func (a *App) render() {
	a.screen.Clear()

	height := a.screen.GetHeight()

	// Header line
	header := fmt.Sprintf(" %s @%s (%s) ", a.rev, shortHash(a.commitHash), a.backend.Tool())
	a.screen.DrawString(0, 0, header, a.screen.FileHeaderStyle())
	if n := a.revision.EntryCount(); n > 0 {
		a.screen.DrawString(ui.StringWidth(header)+1, 0, fmt.Sprintf("%d comments", n), a.screen.CommentMarkerStyle())
	}

	// Diff view takes everything between header and status line
	viewHeight := height - 2
	if a.input.IsActive() {
		viewHeight--
	}
	if viewHeight > 0 {
		a.view.Render(a.screen, 1, viewHeight)
	}

	if a.input.IsActive() {
		a.input.Render(a.screen, height-2)
	}

	a.renderStatusLine(height - 1)

	// Overlays
	a.jump.Render(a.screen)
	a.panel.Render(a.screen)
	a.msgLog.Render(a.screen)
	a.help.Render(a.screen)

	a.screen.Show()
}

func (a *App) renderStatusLine(y int) {
	statusLine := "-- " + a.mode + " --"
	if a.statusMsg != "Ready" && time.Since(a.statusTime) <= 3*time.Second {
		statusLine += " " + a.statusMsg
	}
	a.screen.DrawString(0, y, statusLine, a.screen.StatusModeStyle())

	// Right-aligned position indicator
	if r, ok := a.view.CurrentRow(); ok {
		pos := fmt.Sprintf("%d/%d %s", r.Index+1, a.view.RowCount(), r.FileID)
		x := a.screen.GetWidth() - ui.StringWidth(pos) - 1
		if x > ui.StringWidth(statusLine)+2 {
			a.screen.DrawString(x, y, pos, a.screen.StatusMessageStyle())
		}
	}
}

// handleRawEvent processes raw input events
func (a *App) handleRawEvent(ev tcell.Event) {
	if _, ok := ev.(*tcell.EventResize); ok {
		a.screen.Size()
		return
	}

	keyEv, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	// Comment input swallows everything while active
	if a.input.IsActive() {
		text, done := a.input.HandleKey(keyEv)
		if done {
			a.finishComment(text)
		}
		return
	}

	if a.jump.IsVisible() {
		a.jump.HandleKeyEvent(keyEv)
		return
	}

	if a.panel.IsVisible() {
		a.panel.HandleKeyEvent(keyEv)
		return
	}

	if a.msgLog.IsVisible() {
		a.msgLog.HandleKeyEvent(keyEv)
		return
	}

	if a.help.IsVisible() {
		if keyEv.Key() == tcell.KeyEscape || keyEv.Rune() == '?' || keyEv.Rune() == 'q' {
			a.help.Toggle()
		}
		return
	}

	a.handleKeypress(keyEv)
}

// finishComment attaches the typed text to the pending anchor
func (a *App) finishComment(text string) {
	a.mode = "NORMAL"
	anchor := a.pendingAnchor
	replyTo := a.replyTo
	a.pendingAnchor = nil
	a.replyTo = ""

	if text == "" || anchor == nil {
		a.SetStatus("Comment cancelled")
		return
	}

	target := a.revision.Attach(anchor)
	entry := comments.NewEntry(text, a.cfg.Author, "comment")
	entry.ReplyTo = replyTo
	target.Entries = append(target.Entries, entry)

	a.save()
	a.view.SetComments(a.revision)
	a.SetStatus("Comment added")
}

// handleKeypress handles a single keypress in normal mode
func (a *App) handleKeypress(ev *tcell.EventKey) {
	if a.debug {
		a.SetStatus(fmt.Sprintf("Key: %v | Rune: %q | Modifiers: %v", ev.Key(), ev.Rune(), ev.Modifiers()))
	}

	switch ev.Key() {
	case tcell.KeyDown:
		a.view.MoveCursor(1)
		return
	case tcell.KeyUp:
		a.view.MoveCursor(-1)
		return
	case tcell.KeyCtrlD, tcell.KeyPgDn:
		a.view.PageDown()
		return
	case tcell.KeyCtrlU, tcell.KeyPgUp:
		a.view.PageUp()
		return
	case tcell.KeyHome:
		a.view.JumpToTop()
		return
	case tcell.KeyEnd:
		a.view.JumpToBottom()
		return
	case tcell.KeyEnter:
		a.openComments()
		return
	case tcell.KeyEscape:
		return
	}

	for _, kb := range a.InitializeKeybindings() {
		if kb.Key == ev.Rune() {
			kb.Handler(a)
			return
		}
	}
}

// openComments shows the comment panel for the row under the cursor
func (a *App) openComments() {
	anchors := a.anchorsAtCursor()
	if len(anchors) == 0 {
		a.SetStatus("No comments here")
		return
	}
	a.panel.Show(anchors)
}

// anchorsAtCursor finds stored anchors matching the cursor row
func (a *App) anchorsAtCursor() []*comments.Anchor {
	probe, ok := a.view.AnchorAtCursor()
	if !ok {
		return nil
	}
	var out []*comments.Anchor
	for _, ex := range a.revision.Anchors {
		if ex.Kind != probe.Kind {
			continue
		}
		switch probe.Kind {
		case comments.AnchorHunk:
			if ex.ID == probe.ID {
				out = append(out, ex)
			}
		case comments.AnchorLine:
			if ex.File == probe.File && ex.Line == probe.Line && ex.Side.Normalize() == probe.Side.Normalize() {
				out = append(out, ex)
			}
		}
	}
	return out
}

// startComment begins comment input for the row under the cursor
func (a *App) startComment() {
	anchor, ok := a.view.AnchorAtCursor()
	if !ok {
		a.SetStatus("Cannot comment on this row")
		return
	}
	a.pendingAnchor = anchor
	a.replyTo = ""
	a.mode = "COMMENT"
	a.input.Start("Comment: ")
}

// startReply begins a reply to the newest comment at the cursor
func (a *App) startReply() {
	anchors := a.anchorsAtCursor()
	if len(anchors) == 0 || len(anchors[0].Entries) == 0 {
		a.SetStatus("Nothing to reply to")
		return
	}
	anchor := anchors[0]
	a.pendingAnchor = anchor
	a.replyTo = anchor.Entries[len(anchor.Entries)-1].ID
	a.mode = "COMMENT"
	a.input.Start("Reply: ")
}

// deleteComment removes the newest comment at the cursor
func (a *App) deleteComment() {
	anchors := a.anchorsAtCursor()
	if len(anchors) == 0 || len(anchors[0].Entries) == 0 {
		a.SetStatus("No comment to delete")
		return
	}
	entries := anchors[0].Entries
	if a.revision.RemoveEntry(entries[len(entries)-1].ID) {
		a.save()
		a.view.SetComments(a.revision)
		a.SetStatus("Comment deleted")
	}
}

// reload refetches the diff, relocating comments if the revision moved
func (a *App) reload() {
	if err := a.loadRevision(); err != nil {
		a.SetStatus("Reload failed: " + err.Error())
		log.Printf("reload failed: %v", err)
		return
	}
	a.SetStatus("Reloaded")
}

// toggleWrap flips word wrapping
func (a *App) toggleWrap() {
	a.cfg.Wrap = !a.cfg.Wrap
	a.view.SetWrap(a.cfg.Wrap)
	if a.cfg.Wrap {
		a.SetStatus("Wrap on")
	} else {
		a.SetStatus("Wrap off")
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
