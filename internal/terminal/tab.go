package terminal

import "github.com/atotto/clipboard"

// oscClipboard bridges OSC 52 clipboard requests from the VT engine to
// the system clipboard. It is deliberately separate from
// internal/registers.Store's reconciliation logic: OSC 52 speaks for
// the shell running inside the tab, not for editor register '*'/'+',
// though both ultimately read/write the same system clipboard.
type oscClipboard struct{}

func (oscClipboard) Read(_ byte) string {
	s, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return s
}

func (oscClipboard) Write(_ byte, data []byte) {
	_ = clipboard.WriteAll(string(data))
}

// Tab is one shell session within the terminal panel: a PTY-backed
// process plus the VT emulator tracking its screen state.
type Tab struct {
	ID       int
	Process  *Process
	Emulator *Emulator
}

// NewTab spawns shell inside a rows x cols PTY and wires its emulator's
// responses back into the same process (for cursor/device reports) and
// its OSC 52 requests into the system clipboard.
func NewTab(id int, shell []string, rows, cols int) (*Tab, error) {
	proc, err := Spawn(shell, rows, cols, nil)
	if err != nil {
		return nil, err
	}
	emu := NewEmulator(rows, cols, procWriter{proc}, oscClipboard{})
	return &Tab{ID: id, Process: proc, Emulator: emu}, nil
}

// procWriter adapts *Process to io.Writer so the emulator can write
// terminal responses (e.g. cursor position reports) back to the PTY.
type procWriter struct{ p *Process }

func (w procWriter) Write(data []byte) (int, error) {
	w.p.Write(data)
	return len(data), nil
}

// Pump drains one chunk of PTY output into the emulator. Intended to be
// called from the tab's owning goroutine whenever Process.Output
// yields data.
func (t *Tab) Pump(data []byte) { t.Emulator.Feed(data) }

// Title returns the tab's OSC-set title, or "shell" when none is set.
func (t *Tab) Title() string {
	if title := t.Emulator.Title(); title != "" {
		return title
	}
	return "shell"
}

// Resize propagates a new size to both the PTY and its emulator.
func (t *Tab) Resize(rows, cols int) {
	_ = t.Process.Resize(rows, cols)
	t.Emulator.Resize(rows, cols)
}

// Close tears the tab's process down.
func (t *Tab) Close() error { return t.Process.Close() }
