// Package msg carries the handful of cross-package bubbletea messages
// riv's app loop and its subordinate packages (editor commands, the
// word-completion worker, the LSP/DAP registries) exchange without
// importing internal/app back: a toast for the status line, and the
// tick that clears it again.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary status-line message. Duration is how
// long app.Model should leave it up before clearing it automatically;
// zero means it sticks until the next toast replaces it.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

// ClearToastMsg asks app.Model to clear the status line, but only if
// Generation still matches the toast that scheduled it — app.Model
// stamps this with its own counter when it schedules the timer, so a
// toast that already got superseded by a newer one can't blank it out.
type ClearToastMsg struct {
	Generation int
}

// ShowToast returns a command producing a ToastMsg.
func ShowToast(message string, duration time.Duration, isError bool) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration, IsError: isError}
	}
}

// ClearAfter schedules a ClearToastMsg for the given generation once
// duration elapses. A non-positive duration schedules nothing.
func ClearAfter(duration time.Duration, generation int) tea.Cmd {
	if duration <= 0 {
		return nil
	}
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return ClearToastMsg{Generation: generation}
	})
}
