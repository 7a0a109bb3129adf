package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/editor"
	"github.com/rivedit/riv/internal/handlers"
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/lsp"
	"github.com/rivedit/riv/internal/msg"
	"github.com/rivedit/riv/internal/palette"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/terminal"
	"github.com/rivedit/riv/internal/ui"
	"github.com/rivedit/riv/internal/view"
	"github.com/rivedit/riv/internal/watcher"
)

// Update is the single dispatch point every input and async event flows
// through. Anything that happened off this
// goroutine arrives here already as a concrete tea.Msg, via either
// bubbletea's own Cmd machinery (terminal output, the async bridge
// re-armed after each message) or asyncCh (everything routed through
// runtime.Loop).
func (m *Model) Update(tm tea.Msg) (tea.Model, tea.Cmd) {
	switch t := tm.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(t)
	case tea.KeyMsg:
		return m.handleKey(t)
	case tea.MouseMsg:
		return m.handleMouse(t)

	case terminal.OutputMsg:
		return m, terminal.WaitForOutput(m.terminal.ActiveTab())
	case terminal.ExitMsg:
		m.terminal.CloseActiveTab()
		if tab := m.terminal.ActiveTab(); tab != nil {
			return m, terminal.WaitForOutput(tab)
		}
		return m, nil

	case msg.ToastMsg:
		m.toastGen++
		m.status, m.statusIsError = t.Message, t.IsError
		return m, tea.Batch(waitForAsync(m.asyncCh), msg.ClearAfter(t.Duration, m.toastGen))
	case msg.ClearToastMsg:
		if t.Generation == m.toastGen {
			m.status, m.statusIsError = "", false
		}
		return m, nil
	case lspNotificationMsg:
		return m.handleLSPNotification(t)
	case lspReverseMsg:
		return m.handleLSPReverse(t)
	case debugEventMsg:
		return m.handleDebugEvent(t)
	case debugReverseMsg:
		return m.handleDebugReverse(t)
	case debugJumpMsg:
		return m.handleDebugJump(t)
	case watcherEventMsg:
		return m.handleWatcherEvent(t)

	case handlers.CompletionMsg:
		m.completionCoord.HandleResponse(t, func(items []handlers.Item) {
			m.loop.Send(completionSettledMsg{items: items})
		})
		return m, waitForAsync(m.asyncCh)
	case completionSettledMsg:
		m.completionItems = t.items
		m.completionActive = len(t.items) > 0
		return m, waitForAsync(m.asyncCh)
	case handlers.SignatureHelpMsg:
		if !m.signatureCoord.Stale(t.Generation) {
			m.signatureActive = t.Found
			m.signatureInfo = t.Info
		}
		return m, waitForAsync(m.asyncCh)
	case handlers.InlayHintsMsg:
		if doc := m.editor.FocusedDocument(); doc != nil && !m.inlayCoord.Stale(t.Generation) {
			v := m.editor.Tree.Focus()
			doc.SetInlayHints(document.ViewID(v.ID), t.FirstLine, t.LastLine, t.Hints)
		}
		return m, waitForAsync(m.asyncCh)
	case handlers.InlineCompletionMsg:
		if m.editor.Mode == keymap.ModeInsert && !m.inlineCoord.Stale(t.Generation) {
			m.ghostLines = t.Lines
		}
		return m, waitForAsync(m.asyncCh)

	case palette.SelectedMsg:
		return m.runPaletteSelection(t.Entry)
	case palette.CancelledMsg:
		m.palette = nil
		return m, nil
	}

	if m.palette != nil {
		var pm palette.Model
		var cmd tea.Cmd
		pm, cmd = m.palette.Update(tm)
		m.palette = &pm
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleResize(t tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = t.Width, t.Height
	m.ready = true
	m.terminal.SetScreenSize(t.Width, t.Height)

	docHeight := t.Height - 1 - m.terminal.Height()
	if docHeight < 1 {
		docHeight = 1
	}
	m.editor.Tree.Resize(view.Rect{X: 0, Y: 0, W: t.Width, H: docHeight})
	return m, nil
}

// handleKey is riv's keystroke entrypoint: the quit-confirmation modal
// (if up) takes every key first, then the terminal panel (if focused),
// then the keymap trie, with Unmatched keys falling through to literal
// text insertion in Insert/Command-line mode.
func (m *Model) handleKey(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitConfirm != nil {
		action, cmd := m.quitConfirm.HandleKey(km)
		switch action {
		case "confirm":
			m.quitConfirm = nil
			m.recordCursorHistory()
			return m, tea.Quit
		case "cancel":
			m.quitConfirm = nil
		}
		return m, cmd
	}

	if m.palette != nil {
		pm, cmd := m.palette.Update(km)
		m.palette = &pm
		return m, cmd
	}

	if m.terminalFocused {
		if km.String() == "ctrl+grave" {
			m.terminal.Toggle()
			m.terminalFocused = false
			return m, nil
		}
		if tab := m.terminal.ActiveTab(); tab != nil {
			terminal.SendKey(tab, km)
		}
		return m, nil
	}

	result := m.editor.Feed(km.String())
	switch {
	case result.Matched && result.Command != "":
		if result.Command == "execute_command_line" {
			m.recordCommandHistory(m.editor.CommandLine)
		}
		return m.runEffect(m.editor.Run(result.Command))
	case result.Matched && len(result.Sequence) > 0:
		return m.runEffect(m.editor.RunSequence(result.Sequence))
	case result.Descended:
		return m, nil
	case result.Unmatched:
		return m.handleUnmatchedKey(km)
	}
	return m, nil
}

// handleUnmatchedKey implements the literal-text fallback: Insert mode
// inserts the rune at every selection range; Command-line mode appends
// it to the in-progress command (or erases on backspace).
func (m *Model) handleUnmatchedKey(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.editor.Mode {
	case keymap.ModeInsert:
		if len(km.Runes) == 0 {
			return m, nil
		}
		eff := m.editor.InsertLiteral(string(km.Runes))
		return m.runEffect(eff)
	case keymap.ModeCommand:
		if km.Type == tea.KeyBackspace {
			m.editor.CommandLineBackspace()
			return m, nil
		}
		for _, r := range km.Runes {
			m.editor.CommandLineInput(r)
		}
		return m, nil
	}
	return m, nil
}

// runEffect fulfills whatever an editor command asked for: nothing
// further (EffectNone, a status message only), a cross-package request
// (EffectRequest), or an editor exit (EffectQuit, gated behind an
// unsaved-changes confirmation).
func (m *Model) runEffect(eff editor.Effect) (tea.Model, tea.Cmd) {
	if eff.Status != "" {
		m.status, m.statusIsError = eff.Status, eff.IsError
		if eff.IsError {
			m.sawWriteError = true
		}
	}

	switch eff.Kind {
	case editor.EffectQuit:
		return m.handleQuitRequest()
	case editor.EffectRequest:
		return m.handleCrossPackageRequest(eff.Request)
	}

	if m.editor.Mode == keymap.ModeInsert {
		m.triggerAsyncHandlers()
	} else {
		// leaving (or never being in) Insert mode tears ghost text and
		// transient popups down
		m.inlineCoord.Invalidate()
		m.ghostLines = nil
		m.signatureCoord.Cancel()
		m.signatureActive = false
	}
	return m, nil
}

// handleQuitRequest refuses a bare quit against a modified document,
// raising the confirmation dialog instead; :q! and a clean buffer quit
// immediately.
func (m *Model) handleQuitRequest() (tea.Model, tea.Cmd) {
	doc := m.editor.FocusedDocument()
	if doc != nil && doc.IsModified() {
		path := doc.Path
		if path == "" {
			path = "[scratch]"
		}
		m.quitConfirm = ui.NewQuitConfirmDialog(path).ToModal()
		return m, nil
	}
	m.recordCursorHistory()
	return m, tea.Quit
}

// recordCursorHistory persists every open document's cursor position in
// whichever view last held it, for OpenFileAtPosition's history lookup
// to restore on a later session. A no-op when no history store was
// opened.
func (m *Model) recordCursorHistory() {
	if m.history == nil {
		return
	}
	for _, v := range m.editor.Tree.Views() {
		doc, ok := m.editor.Documents[v.Doc]
		if !ok || doc.Path == "" {
			continue
		}
		abs, err := filepath.Abs(doc.Path)
		if err != nil {
			abs = doc.Path
		}
		sel := doc.Selection(document.ViewID(v.ID))
		row := doc.Text().CharToLine(sel.Primary().Head)
		col := sel.Primary().Head - doc.Text().LineToChar(row)
		_ = m.history.RecordCursor(abs, row, col)
	}
}

// recordCommandHistory persists an executed `:`-command line, skipping
// the empty line a bare Enter on an empty command-line produces.
func (m *Model) recordCommandHistory(line string) {
	if m.history == nil || line == "" {
		return
	}
	_ = m.history.AppendCommand(line)
}

// handleCrossPackageRequest fulfills one of editor.crossPackageCommands:
// the commands internal/editor deliberately doesn't know how to run
// itself.
func (m *Model) handleCrossPackageRequest(name string) (tea.Model, tea.Cmd) {
	doc := m.editor.FocusedDocument()

	switch name {
	case "open_command_palette":
		entries := m.buildPaletteEntries()
		serverName := ""
		if doc != nil {
			serverName = string(doc.Language)
		}
		pm := palette.New(entries, string(m.editor.Mode), serverName)
		pm.SetSize(m.width, m.height)
		m.palette = &pm
		return m, pm.Init()

	case "toggle_terminal_panel":
		m.terminal.Toggle()
		m.terminalFocused = m.terminal.Visible()
		if tab := m.terminal.ActiveTab(); tab != nil {
			return m, terminal.WaitForOutput(tab)
		}
		return m, nil

	case "trigger_completion":
		if doc != nil {
			m.completionCoord.ManualTrigger(handlers.Trigger{Doc: doc, Cursor: m.cursorPos(doc), Manual: true})
		}
		return m, nil
	case "completion_next", "completion_prev":
		return m, nil // no-op: there is no popup selection to cycle; Tab accepts the first merged item
	case "accept_completion_or_indent":
		return m.acceptCompletionOrIndent(doc)

	case "signature_help":
		if doc != nil {
			m.signatureCoord.Trigger(doc, m.cursorPos(doc))
		}
		return m, nil

	case "toggle_diagnostics":
		return m, nil

	case "goto_definition", "goto_references", "goto_hover", "code_action", "rename_symbol":
		return m, m.runLSPRequest(doc, name)

	case "debug_continue", "debug_step_over", "debug_step_into", "debug_toggle_breakpoint":
		return m, m.runDebugRequest(doc, name)

	case "search", "search_next", "search_prev", "command_line_complete":
		return m, nil
	}
	return m, nil
}

// runPaletteSelection closes the palette and dispatches the entry the
// user confirmed: a leading ":" marks an ex-command (routed through the
// command line exactly as if the user had typed and entered it), every
// other entry is a command name run the same way a keybinding would.
func (m *Model) runPaletteSelection(entry palette.PaletteEntry) (tea.Model, tea.Cmd) {
	m.palette = nil
	if rest, ok := strings.CutPrefix(entry.Command, ":"); ok {
		m.editor.CommandLine = rest
		return m.runEffect(m.editor.Run("execute_command_line"))
	}
	return m.runEffect(m.editor.Run(entry.Command))
}

// acceptCompletionOrIndent implements Insert mode's Tab: accepts the
// first merged completion item if the popup is open, otherwise inserts
// a literal tab.
func (m *Model) acceptCompletionOrIndent(doc *document.Document) (tea.Model, tea.Cmd) {
	if m.completionActive && len(m.completionItems) > 0 {
		item := m.completionItems[0]
		m.completionCoord.Cancel()
		m.completionActive = false
		m.completionItems = nil
		eff := m.editor.InsertLiteral(item.InsertText)
		return m.runEffect(eff)
	}
	eff := m.editor.InsertLiteral("\t")
	return m.runEffect(eff)
}

// triggerAsyncHandlers restarts every debounced Insert-mode coordinator
// after a keystroke. riv fires on every Insert-mode key rather than
// only the subset that plausibly starts a completion/signature/ghost
// context, since the command dispatch table doesn't tag commands with
// that intent.
func (m *Model) triggerAsyncHandlers() {
	doc := m.editor.FocusedDocument()
	if doc == nil {
		return
	}
	cursor := m.cursorPos(doc)
	m.ghostLines = nil // a new edit always invalidates the old proposal
	reindexOnChange(m.wordWorker, doc)
	m.completionCoord.AutoTrigger(handlers.Trigger{Doc: doc, Cursor: cursor})
	m.signatureCoord.Trigger(doc, cursor)
	m.inlineCoord.Trigger(doc, cursor)

	v := m.editor.Tree.Focus()
	firstLine := v.Offset.Row
	lastLine := firstLine + v.Area.H
	m.inlayCoord.OnDocumentChange(doc, firstLine, lastLine)
}

func (m *Model) cursorPos(doc *document.Document) int {
	v := m.editor.Tree.Focus()
	return doc.Selection(document.ViewID(v.ID)).Primary().Head
}

func (m *Model) handleMouse(tm tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.palette != nil {
		pm, cmd := m.palette.Update(tm)
		m.palette = &pm
		return m, cmd
	}
	if m.terminal.Visible() {
		m.terminal.RegisterSeparatorHitRegion(m.height-m.terminal.Height()-1, m.width)
		if m.terminal.HandleMouse(tm) {
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) handleWatcherEvent(t watcherEventMsg) (tea.Model, tea.Cmd) {
	for _, doc := range m.editor.Documents {
		if doc.Path == t.event.Path && !doc.IsModified() {
			if contents, err := os.ReadFile(doc.Path); err == nil {
				doc.Reload(string(contents))
			}
		}
	}
	return m, waitForAsync(m.asyncCh)
}

// runLSPRequest dispatches a one-shot LSP request on its own goroutine
// and reports the outcome as a status message via the async bridge,
// since riv's LSP client calls block and must never run on
// bubbletea's own goroutine.
func (m *Model) runLSPRequest(doc *document.Document, name string) tea.Cmd {
	if doc == nil {
		return nil
	}
	p := m.lspReg.provider(doc.Language)
	if p == nil {
		m.loop.Send(msg.ToastMsg{Message: "no language server for " + string(doc.Language), IsError: true, Duration: toastErrorTTL})
		return nil
	}
	cursor := m.cursorPos(doc)
	go func() {
		switch name {
		case "goto_definition", "goto_references", "goto_hover", "code_action", "rename_symbol":
			// Each of these is a distinct LSP method with its own
			// response shape (Location[], Hover, CodeAction[], WorkspaceEdit).
			// Only the completion/signature/inlay/inline surfaces are
			// resolved end to end; the rest fire the request and surface
			// the error path, so a dead server is still reported.
			_, err := p.srv.client.Call(lspMethodFor(name), textDocumentPositionParams(doc, cursor))
			if err != nil {
				m.loop.Send(msg.ToastMsg{Message: name + ": " + err.Error(), IsError: true, Duration: toastErrorTTL})
			}
		}
	}()
	return nil
}

func lspMethodFor(name string) string {
	switch name {
	case "goto_definition":
		return "textDocument/definition"
	case "goto_references":
		return "textDocument/references"
	case "goto_hover":
		return "textDocument/hover"
	case "code_action":
		return "textDocument/codeAction"
	case "rename_symbol":
		return "textDocument/rename"
	}
	return ""
}

// handleLSPNotification folds one server notification into editor
// state: publishDiagnostics lands on the matching document (keyed by
// server name so multiple servers' diagnostics coexist), window
// messages surface on the status line.
func (m *Model) handleLSPNotification(t lspNotificationMsg) (tea.Model, tea.Cmd) {
	switch t.note.Method {
	case "textDocument/publishDiagnostics":
		var params struct {
			URI         string `json:"uri"`
			Diagnostics []struct {
				Range    lsp.Range       `json:"range"`
				Severity int             `json:"severity"`
				Message  string          `json:"message"`
				Code     json.RawMessage `json:"code"`
				Source   string          `json:"source"`
			} `json:"diagnostics"`
		}
		if err := json.Unmarshal(t.note.Params, &params); err != nil {
			return m, waitForAsync(m.asyncCh)
		}
		doc := m.documentByURI(params.URI)
		if doc == nil {
			return m, waitForAsync(m.asyncCh)
		}
		diags := make([]document.Diagnostic, 0, len(params.Diagnostics))
		for _, d := range params.Diagnostics {
			from := lsp.PositionToChar(doc.Text(), d.Range.Start, lsp.OffsetUTF16)
			to := lsp.PositionToChar(doc.Text(), d.Range.End, lsp.OffsetUTF16)
			diags = append(diags, document.Diagnostic{
				Provider: t.server,
				Range:    rope.Range{Anchor: from, Head: to},
				Severity: lspSeverity(d.Severity),
				Message:  d.Message,
				Code:     strings.Trim(string(d.Code), `"`),
			})
		}
		doc.SetDiagnostics(t.server, diags)

	case "window/showMessage":
		if m.cfg.Editor.LSP.DisplayMessages {
			var params struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(t.note.Params, &params) == nil && params.Message != "" {
				m.loop.Send(msg.ToastMsg{Message: t.server + ": " + params.Message, Duration: toastErrorTTL})
			}
		}
	}
	return m, waitForAsync(m.asyncCh)
}

// lspSeverity maps the wire DiagnosticSeverity (1=Error..4=Hint) onto
// riv's overlay ordering; an absent severity renders as None.
func lspSeverity(n int) document.Severity {
	switch n {
	case 1:
		return document.SeverityError
	case 2:
		return document.SeverityWarning
	case 3:
		return document.SeverityInfo
	case 4:
		return document.SeverityHint
	}
	return document.SeverityNone
}

// documentByURI finds the open document whose path matches uri,
// tolerating relative open paths by comparing absolute forms.
func (m *Model) documentByURI(uri string) *document.Document {
	path := lsp.URIToPath(uri)
	for _, doc := range m.editor.Documents {
		if doc.Path == "" {
			continue
		}
		if doc.Path == path {
			return doc
		}
		if abs, err := filepath.Abs(doc.Path); err == nil && abs == path {
			return doc
		}
	}
	return nil
}

// handleLSPReverse answers server-to-editor requests on the main task.
// workspace/applyEdit runs the full multi-document edit application and
// reports applied/failureReason; the other standard requests get the
// minimal conforming replies.
func (m *Model) handleLSPReverse(t lspReverseMsg) (tea.Model, tea.Cmd) {
	switch t.req.Method {
	case "workspace/applyEdit":
		var params struct {
			Label string            `json:"label"`
			Edit  lsp.WorkspaceEdit `json:"edit"`
		}
		if err := json.Unmarshal(t.req.Params, &params); err != nil {
			t.req.Respond(nil, &lsp.Error{Code: lsp.InvalidParams, Message: err.Error()})
			break
		}
		err := lsp.ApplyFullWorkspaceEdit(params.Edit, lsp.OffsetUTF16, m.documentByURI, m.handleFileEvent)
		if err != nil {
			reply := map[string]any{"applied": false, "failureReason": err.Error()}
			var weErr *lsp.WorkspaceEditError
			if errors.As(err, &weErr) {
				reply["failedChange"] = weErr.FailedChangeIdx
			}
			t.req.Respond(reply, nil)
			m.loop.Send(msg.ToastMsg{Message: "workspace edit: " + err.Error(), IsError: true, Duration: toastErrorTTL})
			break
		}
		t.req.Respond(map[string]any{"applied": true}, nil)

	case "window/showMessageRequest":
		var params struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(t.req.Params, &params) == nil && params.Message != "" {
			m.loop.Send(msg.ToastMsg{Message: t.server + ": " + params.Message, Duration: toastErrorTTL})
		}
		t.req.Respond(nil, nil) // no action chosen

	case "workspace/configuration":
		var params struct {
			Items []json.RawMessage `json:"items"`
		}
		_ = json.Unmarshal(t.req.Params, &params)
		t.req.Respond(make([]any, len(params.Items)), nil)

	case "window/workDoneProgress/create", "client/registerCapability", "client/unregisterCapability":
		t.req.Respond(nil, nil)

	default:
		t.req.Respond(nil, &lsp.Error{Code: lsp.MethodNotFound, Message: "unsupported request: " + t.req.Method})
	}
	return m, waitForAsync(m.asyncCh)
}

// handleFileEvent reconciles editor state after a workspace-edit
// resource operation and replays it through the same path watcher
// events take, so open documents reload or follow renames exactly as
// they would for an external change.
func (m *Model) handleFileEvent(ev lsp.FileEvent) {
	if ev.Op == "rename" {
		for _, doc := range m.editor.Documents {
			if doc.Path == ev.OldPath {
				doc.Path = ev.Path
			}
		}
	}
	op := fsnotify.Create
	switch ev.Op {
	case "delete":
		op = fsnotify.Remove
	case "rename":
		op = fsnotify.Rename
	}
	m.loop.Send(watcherEventMsg{event: watcher.Event{Path: ev.Path, Op: op}})
}

// handleDebugEvent reacts to adapter lifecycle events: Initialized
// re-sends every breakpoint then configurationDone; Stopped refreshes
// the thread list and stack trace off the main task and requests a jump
// to the top frame's source once resolved.
func (m *Model) handleDebugEvent(t debugEventMsg) (tea.Model, tea.Cmd) {
	sess := m.dapReg.sessions[t.adapter]
	if sess == nil {
		return m, waitForAsync(m.asyncCh)
	}
	switch t.event.Event {
	case "initialized":
		go func() {
			if err := sess.client.ResendBreakpoints(); err != nil {
				m.loop.Send(msg.ToastMsg{Message: "configure " + t.adapter + ": " + err.Error(), IsError: true, Duration: toastErrorTTL})
			}
		}()
	case "stopped":
		threadID := sess.client.ThreadID
		go func() {
			if frame, ok := sess.client.RefreshStoppedState(threadID); ok && frame.Source.Path != "" {
				m.loop.Send(debugJumpMsg{path: frame.Source.Path, line: frame.Line, col: frame.Column})
			}
		}()
	}
	return m, waitForAsync(m.asyncCh)
}

// handleDebugReverse answers adapter-to-editor requests. runInTerminal
// spawns a tab in the terminal panel and replies with the child's pid;
// anything else is refused.
func (m *Model) handleDebugReverse(t debugReverseMsg) (tea.Model, tea.Cmd) {
	if t.req.Command != "runInTerminal" {
		t.req.Respond(nil, false, "unsupported request: "+t.req.Command)
		return m, waitForAsync(m.asyncCh)
	}
	var args struct {
		Args []string `json:"args"`
		Cwd  string   `json:"cwd"`
	}
	if err := json.Unmarshal(t.req.Args, &args); err != nil || len(args.Args) == 0 {
		t.req.Respond(nil, false, "runInTerminal: bad arguments")
		return m, waitForAsync(m.asyncCh)
	}
	if !m.terminal.Visible() {
		m.terminal.Toggle()
	}
	tab, err := m.terminal.NewTabWithCommand(args.Args)
	if err != nil {
		t.req.Respond(nil, false, "runInTerminal: "+err.Error())
		return m, waitForAsync(m.asyncCh)
	}
	t.req.Respond(map[string]any{"processId": tab.Process.Pid()}, true, "")
	return m, tea.Batch(waitForAsync(m.asyncCh), terminal.WaitForOutput(tab))
}

// handleDebugJump opens (or focuses) the stopped frame's source file
// and places the cursor on the stopped line.
func (m *Model) handleDebugJump(t debugJumpMsg) (tea.Model, tea.Cmd) {
	row, col := t.line-1, t.col-1
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if _, err := m.editor.JumpTo(t.path, row, col); err != nil {
		m.loop.Send(msg.ToastMsg{Message: "open " + t.path + ": " + err.Error(), IsError: true, Duration: toastErrorTTL})
	}
	return m, waitForAsync(m.asyncCh)
}

// runDebugRequest dispatches a DAP request for the focused document's
// language, reporting failures the same way runLSPRequest does.
func (m *Model) runDebugRequest(doc *document.Document, name string) tea.Cmd {
	if doc == nil {
		return nil
	}
	sess := m.dapReg.session(string(doc.Language))
	if sess == nil {
		m.loop.Send(msg.ToastMsg{Message: "no debug adapter for " + string(doc.Language), IsError: true, Duration: toastErrorTTL})
		return nil
	}
	threadID := sess.client.ThreadID
	go func() {
		var err error
		switch name {
		case "debug_continue":
			err = sess.cont(threadID)
		case "debug_step_over":
			err = sess.stepOver(threadID)
		case "debug_step_into":
			err = sess.stepInto(threadID)
		case "debug_toggle_breakpoint":
			v := m.editor.Tree.Focus()
			line := doc.Text().CharToLine(doc.Selection(document.ViewID(v.ID)).Primary().Head)
			err = sess.toggleBreakpoint(doc.Path, line+1)
		}
		if err != nil {
			m.loop.Send(msg.ToastMsg{Message: name + ": " + err.Error(), IsError: true, Duration: toastErrorTTL})
		}
	}()
	return nil
}
