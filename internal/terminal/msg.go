package terminal

import tea "github.com/charmbracelet/bubbletea"

// OutputMsg names a tab whose emulator has just been fed a chunk of PTY
// output (or whose process signalled a wakeup); it carries no bytes, and
// receivers only need it to know a redraw is due. WaitForOutput below is
// what produces these.
type OutputMsg struct{ TabID int }

// ExitMsg is delivered once, when a tab's child process terminates.
type ExitMsg struct {
	TabID    int
	ExitCode int
}

// WaitForOutput returns a tea.Cmd that blocks until the tab's process
// either produces output or exits, feeding output directly into the
// tab's emulator before returning (mirrors riv's own runtime.Cmd shape:
// a blocking func that produces exactly one Msg per call, re-armed by
// the caller after each message like bubbletea's classic "waitForActivity"
// idiom).
func WaitForOutput(tab *Tab) tea.Cmd {
	return func() tea.Msg {
		select {
		case data, ok := <-tab.Process.Output():
			if !ok {
				code := <-tab.Process.Exit()
				return ExitMsg{TabID: tab.ID, ExitCode: code}
			}
			tab.Pump(data)
			return OutputMsg{TabID: tab.ID}
		case <-tab.Process.Wakeup():
			return OutputMsg{TabID: tab.ID}
		}
	}
}

// SendKey encodes and writes one key event to the tab's PTY.
func SendKey(tab *Tab, msg tea.KeyMsg) {
	b := EncodeKey(msg, tab.Emulator.HasApplicationCursor())
	if len(b) > 0 {
		tab.Process.Write(b)
	}
}
