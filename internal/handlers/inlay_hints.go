package handlers

import (
	"time"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/runtime"
)

// InlayHintProvider fetches inlay hints for a viewport line range.
type InlayHintProvider interface {
	InlayHints(doc *document.Document, firstLine, lastLine int) []document.InlayHint
}

// InlayHintsMsg carries a resolved hint set back to the editor, keyed
// by the same (firstLine, lastLine) id document.InlayHintSet uses.
type InlayHintsMsg struct {
	Generation int
	FirstLine  int
	LastLine   int
	Hints      []document.InlayHint
}

// InlayHintsCoordinator debounces hint refreshes with two trigger
// kinds sharing one deadline: 500ms after a document change, 100ms
// after a scroll, with the later of the two deadlines winning. A
// scroll right after an edit therefore waits out the edit's longer
// deadline instead of cutting it short.
type InlayHintsCoordinator struct {
	loop     *runtime.Loop
	provider InlayHintProvider
	debounce *runtime.DebounceState
}

// NewInlayHintsCoordinator creates a coordinator debounced at 500ms
// for document changes and 100ms for scroll.
func NewInlayHintsCoordinator(loop *runtime.Loop, provider InlayHintProvider) *InlayHintsCoordinator {
	return &InlayHintsCoordinator{
		loop:     loop,
		provider: provider,
		debounce: runtime.NewDebounceState(500 * time.Millisecond),
	}
}

// OnDocumentChange extends the shared deadline to at least 500ms out.
func (c *InlayHintsCoordinator) OnDocumentChange(doc *document.Document, firstLine, lastLine int) {
	c.debounce.TriggerAtLeast(500*time.Millisecond, func(gen int) { c.fire(doc, firstLine, lastLine, gen) })
}

// OnScroll extends the shared deadline to at least 100ms out.
func (c *InlayHintsCoordinator) OnScroll(doc *document.Document, firstLine, lastLine int) {
	c.debounce.TriggerAtLeast(100*time.Millisecond, func(gen int) { c.fire(doc, firstLine, lastLine, gen) })
}

// Stale reports whether an InlayHintsMsg's generation has been
// superseded by a newer trigger.
func (c *InlayHintsCoordinator) Stale(gen int) bool { return c.debounce.Stale(gen) }

func (c *InlayHintsCoordinator) fire(doc *document.Document, firstLine, lastLine int, gen int) {
	c.loop.Dispatch(func() runtime.Msg {
		hints := c.provider.InlayHints(doc, firstLine, lastLine)
		return InlayHintsMsg{Generation: gen, FirstLine: firstLine, LastLine: lastLine, Hints: hints}
	})
}
