package handlers

import (
	"time"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/runtime"
)

// SignatureInfo is one resolved signature-help response.
type SignatureInfo struct {
	Label          string
	ActiveParam    int
	ParameterCount int
}

// SignatureProvider produces signature help for a cursor position.
type SignatureProvider interface {
	SignatureHelp(doc *document.Document, cursor int) (SignatureInfo, bool)
}

// SignatureHelpMsg carries a resolved signature back to the editor.
type SignatureHelpMsg struct {
	Generation int
	Info       SignatureInfo
	Found      bool
}

// SignatureHelpCoordinator is simpler than completion because only one
// provider answers (the language server attached to the active cursor
// position), so there is no multi-source merge step.
type SignatureHelpCoordinator struct {
	loop     *runtime.Loop
	debounce *runtime.DebounceState
	provider SignatureProvider
}

// NewSignatureHelpCoordinator creates a coordinator debounced at 120ms.
func NewSignatureHelpCoordinator(loop *runtime.Loop, provider SignatureProvider) *SignatureHelpCoordinator {
	return &SignatureHelpCoordinator{
		loop:     loop,
		debounce: runtime.NewDebounceState(120 * time.Millisecond),
		provider: provider,
	}
}

// Trigger (re)starts the debounce timer for a cursor edit inside a
// call expression.
func (c *SignatureHelpCoordinator) Trigger(doc *document.Document, cursor int) {
	c.debounce.Trigger(func(gen int) {
		c.loop.Dispatch(func() runtime.Msg {
			info, ok := c.provider.SignatureHelp(doc, cursor)
			return SignatureHelpMsg{Generation: gen, Info: info, Found: ok}
		})
	})
}

// Cancel aborts any pending request, e.g. on leaving the call
// expression or exiting Insert mode.
func (c *SignatureHelpCoordinator) Cancel() {
	c.debounce.Cancel()
	c.debounce.Bump()
}

// Stale reports whether a SignatureHelpMsg's generation has been
// superseded by a newer trigger.
func (c *SignatureHelpCoordinator) Stale(gen int) bool { return c.debounce.Stale(gen) }
