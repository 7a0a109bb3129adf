// Package app wires the editor core, the PTY terminal panel, the LSP
// and DAP client managers and the debounced async coordinators into one
// bubbletea program: one Model struct owning every subsystem's handle,
// dispatched through one Update switch, with everything that must run
// off the main goroutine (LSP/DAP transports, the word worker, PTY
// readers, the file watcher, debounce timers) funneled back through a
// single channel instead of mutating Model directly.
package app

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/dap"
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/editor"
	"github.com/rivedit/riv/internal/handlers"
	"github.com/rivedit/riv/internal/history"
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/lsp"
	"github.com/rivedit/riv/internal/modal"
	"github.com/rivedit/riv/internal/mouse"
	"github.com/rivedit/riv/internal/msg"
	"github.com/rivedit/riv/internal/palette"
	"github.com/rivedit/riv/internal/runtime"
	"github.com/rivedit/riv/internal/terminal"
	"github.com/rivedit/riv/internal/theme"
	"github.com/rivedit/riv/internal/view"
	"github.com/rivedit/riv/internal/watcher"
	"github.com/rivedit/riv/internal/wordcomplete"
)

// toastErrorTTL is how long an error toast raised from a background
// subsystem (a crashed language server, a watcher error) stays on the
// status line before clearing itself.
const toastErrorTTL = 5 * time.Second

// Model is riv's top-level bubbletea program state.
type Model struct {
	cfg    *config.Config
	editor *editor.Editor

	terminal        *terminal.Panel
	terminalFocused bool

	width, height int

	status        string
	statusIsError bool

	loop    *runtime.Loop
	asyncCh chan tea.Msg

	lspReg      *lspRegistry
	dapReg      *dapRegistry
	wordWorker  *wordcomplete.Worker
	watcherDisp *watcher.Dispatcher

	completionCoord *handlers.CompletionCoordinator
	signatureCoord  *handlers.SignatureHelpCoordinator
	inlayCoord      *handlers.InlayHintsCoordinator
	inlineCoord     *handlers.InlineCompletionCoordinator

	completionItems  []handlers.Item
	completionActive bool
	signatureInfo    handlers.SignatureInfo
	signatureActive  bool
	ghostLines       []handlers.GhostLine

	quitConfirm *modal.Modal
	modalMouse  *mouse.Handler

	palette *palette.Model

	toastGen int

	// history is the optional persisted store; nil when the cache dir
	// can't be resolved or opened, in which case cursor restore and
	// command/search history are simply unavailable for the session.
	history *history.Store

	ready bool

	// sawWriteError latches true the first time any command surfaces an
	// error status (in practice, almost always a failed `:w`/`:wq`, which
	// must flip the process exit code). main() reads it via ExitCode
	// after the bubbletea program returns.
	sawWriteError bool
}

// ExitCode returns the process exit code main() should use once the
// program has quit: 0 for a clean session, 1 if any command ever
// surfaced an error status (see sawWriteError).
func (m *Model) ExitCode() int {
	if m.sawWriteError {
		return 1
	}
	return 0
}

// FileArg is one CLI positional file argument together with its
// optional prefix/postfix cursor position.
type FileArg struct {
	Path   string
	Row    int // 0-indexed; -1 means "last non-empty line" (bare ':'/'+:')
	Col    int
	HasPos bool
}

// SplitLayout mirrors view.Layout for the CLI's mutually exclusive
// --vsplit/--hsplit flags without importing internal/view into cmd/riv.
type SplitLayout int

const (
	SplitNone SplitLayout = iota
	SplitVertical
	SplitHorizontal
)

// New constructs the program model: opens the given files (if any) at
// their requested cursor positions, spawns the auxiliary background
// tasks (LSP/DAP transports are lazy; the word
// worker and file watcher start immediately), and wires every async
// coordinator onto a shared runtime.Loop bridged back into bubbletea
// via asyncCh.
func New(cfg *config.Config, workspaceRoot string, files []FileArg, split SplitLayout) *Model {
	theme.Apply(theme.Resolve(cfg))

	ed := editor.New(view.Rect{W: 80, H: 24})
	for mode, layer := range cfg.Keys {
		ed.Keymap.ApplyLayer(keymap.Mode(mode), layer)
	}
	layout := view.LayoutVertical
	wantSplit := split != SplitNone
	if split == SplitHorizontal {
		layout = view.LayoutHorizontal
	}

	histStore := openHistoryStore()

	for _, f := range files {
		row, col, hasPos := f.Row, f.Col, f.HasPos
		if !hasPos && histStore != nil {
			if abs, err := filepath.Abs(f.Path); err == nil {
				if r, c, ok, err := histStore.LastCursor(abs); err == nil && ok {
					row, col, hasPos = r, c, true
				}
			}
		}
		if _, err := ed.OpenFileAtPosition(f.Path, row, col, hasPos, layout, wantSplit); err != nil {
			continue
		}
	}

	loop := runtime.NewLoop(256)
	asyncCh := make(chan tea.Msg, 256)
	loop.Use(func(m runtime.Msg) runtime.Cmd {
		asyncCh <- m
		return nil
	})

	m := &Model{
		cfg:        cfg,
		editor:     ed,
		terminal:   terminal.NewPanel(cfg.Editor.Terminal),
		loop:       loop,
		asyncCh:    asyncCh,
		wordWorker: wordcomplete.NewFromConfig(cfg.Editor.Completion),
		history:    histStore,
		modalMouse: mouse.NewHandler(),
	}

	m.lspReg = newLSPRegistry(cfg.LanguageServer,
		func(name string, err error) {
			loop.Send(msg.ToastMsg{Message: "language server '" + name + "' failed to start: " + err.Error(), IsError: true, Duration: toastErrorTTL})
		},
		func(name string, note lsp.Notification) {
			loop.Send(lspNotificationMsg{server: name, note: note})
		},
		func(name string, req lsp.ReverseRequest) {
			loop.Send(lspReverseMsg{server: name, req: req})
		},
	)
	m.dapReg = newDAPRegistry(cfg.DebugAdapter,
		func(name string, err error) {
			loop.Send(msg.ToastMsg{Message: "debug adapter '" + name + "' failed to start: " + err.Error(), IsError: true, Duration: toastErrorTTL})
		},
		func(name string, ev dap.Event) {
			loop.Send(debugEventMsg{adapter: name, event: ev})
		},
		func(name string, req dap.ReverseRequest) {
			loop.Send(debugReverseMsg{adapter: name, req: req})
		},
	)

	sources := []handlers.Source{&lspSource{m}, newWordSource(m.wordWorker), pathSource{}}
	m.completionCoord = handlers.NewCompletionCoordinator(loop, sources, cfg.Editor.Completion.Timeout)
	m.signatureCoord = handlers.NewSignatureHelpCoordinator(loop, lspSignatureAdapter{m})
	m.inlayCoord = handlers.NewInlayHintsCoordinator(loop, lspInlayAdapter{m})
	m.inlineCoord = handlers.NewInlineCompletionCoordinator(loop, lspInlineAdapter{m}, cfg.Editor.TabWidth)

	go m.wordWorker.Run()
	go loop.Run()

	for _, doc := range ed.Documents {
		m.wordWorker.ReindexDocument(doc.ID, doc.Text().String())
	}

	if disp, err := watcher.NewDispatcher(); err == nil {
		m.watcherDisp = disp
		disp.OnError(func(err error) {
			loop.Send(msg.ToastMsg{Message: "file watch error: " + err.Error(), IsError: true, Duration: toastErrorTTL})
		})
		if workspaceRoot != "" {
			_ = disp.AddWatch(&watcher.Watch{Root: workspaceRoot, Callback: func(ev watcher.Event) {
				loop.Send(watcherEventMsg{event: ev})
			}})
		}
		go disp.Run()
	}

	return m
}

// openHistoryStore opens the shada-like history database under the
// user's cache dir, creating it on first run. A nil return (cache dir
// unresolvable, or the database can't be opened) degrades gracefully:
// the session simply runs without cursor restore or persisted command
// history.
func openHistoryStore() *history.Store {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(dir, "riv", "history.db")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	s, err := history.Open(path)
	if err != nil {
		return nil
	}
	return s
}

// lspSignatureAdapter, lspInlayAdapter and lspInlineAdapter route a
// coordinator's provider call to whichever language server is attached
// to the focused document's language, looking it up lazily each call
// rather than binding to one server at construction time (a document's
// language doesn't change, but which server is spawned for it can, the
// first time that language is actually needed).
type lspSignatureAdapter struct{ m *Model }

func (a lspSignatureAdapter) SignatureHelp(doc *document.Document, cursor int) (handlers.SignatureInfo, bool) {
	p := a.m.lspReg.provider(doc.Language)
	if p == nil {
		return handlers.SignatureInfo{}, false
	}
	return p.SignatureHelp(doc, cursor)
}

type lspInlayAdapter struct{ m *Model }

func (a lspInlayAdapter) InlayHints(doc *document.Document, firstLine, lastLine int) []document.InlayHint {
	p := a.m.lspReg.provider(doc.Language)
	if p == nil {
		return nil
	}
	return p.InlayHints(doc, firstLine, lastLine)
}

type lspInlineAdapter struct{ m *Model }

func (a lspInlineAdapter) InlineComplete(doc *document.Document, cursor int) (handlers.InlineResult, bool) {
	p := a.m.lspReg.provider(doc.Language)
	if p == nil {
		return handlers.InlineResult{}, false
	}
	return p.InlineComplete(doc, cursor)
}

// debugEventMsg and watcherEventMsg carry their subsystem's raw event
// back through the same bridge; Update below folds them into Model.
type debugEventMsg struct {
	adapter string
	event   dap.Event
}

type watcherEventMsg struct {
	event watcher.Event
}

// lspNotificationMsg routes one server notification (diagnostics,
// window messages) onto the main task, where the documents live.
type lspNotificationMsg struct {
	server string
	note   lsp.Notification
}

// lspReverseMsg routes a server-to-editor request (workspace/applyEdit,
// window/showMessageRequest, workspace/configuration) onto the main
// task so its handler can touch editor state before replying.
type lspReverseMsg struct {
	server string
	req    lsp.ReverseRequest
}

// debugReverseMsg routes an adapter-to-editor request (runInTerminal)
// onto the main task, where the terminal panel lives.
type debugReverseMsg struct {
	adapter string
	req     dap.ReverseRequest
}

// debugJumpMsg asks the main task to open the stopped frame's source.
type debugJumpMsg struct {
	path      string
	line, col int // 1-indexed, as DAP reports them
}

// completionSettledMsg is what CompletionCoordinator.HandleResponse's
// onSettled callback sends instead of touching Model fields directly
// from its own grace-timer goroutine.
type completionSettledMsg struct {
	items []handlers.Item
}

// Close releases resources opened outside bubbletea's own lifecycle:
// the watcher (draining its queued events), the word worker, the
// dispatch loop and the history database. main() calls this once
// tea.Program.Run returns.
func (m *Model) Close() {
	if m.watcherDisp != nil {
		m.watcherDisp.Stop()
	}
	m.wordWorker.Stop()
	m.loop.Stop()
	if m.history != nil {
		m.history.Close()
	}
}

// Init starts the program's async-bridge listener. The terminal panel
// starts with no tab, so no output pump is started here.
func (m *Model) Init() tea.Cmd {
	return waitForAsync(m.asyncCh)
}

func waitForAsync(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}
