package document

import "github.com/rivedit/riv/internal/rope"

// InlayHintKind distinguishes the inline positions a hint can occupy.
type InlayHintKind int

const (
	InlayHintTypeHint InlayHintKind = iota
	InlayHintParameterHint
	InlayHintPaddingLeft
	InlayHintPaddingRight
)

// InlayHint is one hint rendered inline in the formatter's output.
type InlayHint struct {
	Pos   int
	Kind  InlayHintKind
	Label string
}

// InlayHintSet is keyed by the line range it was computed for, so it
// can be invalidated cheaply when the viewport moves outside that
// range.
type InlayHintSet struct {
	FirstLine, LastLine int
	Hints               []InlayHint
}

// SetInlayHints stores (or replaces) the hint set for a view.
func (d *Document) SetInlayHints(v ViewID, firstLine, lastLine int, hints []InlayHint) {
	d.inlayHints[v] = &InlayHintSet{FirstLine: firstLine, LastLine: lastLine, Hints: hints}
}

// InlayHints returns the current hint set for a view, or nil.
func (d *Document) InlayHints(v ViewID) *InlayHintSet { return d.inlayHints[v] }

// InvalidateInlayHints drops a view's cached hints, e.g. because the
// viewport moved outside [FirstLine, LastLine] or the document changed.
func (d *Document) InvalidateInlayHints(v ViewID) { delete(d.inlayHints, v) }

// InlineCompletion is the current ghost-text proposal.
type InlineCompletion struct {
	ReplaceRange rope.Range
	Text         string // raw multi-line completion text, \n separated
}

// SetInlineCompletion stores the current ghost-text proposal.
func (d *Document) SetInlineCompletion(c *InlineCompletion) { d.inlineCompletion = c }

// InlineCompletionValue returns the current ghost-text proposal, or nil.
func (d *Document) InlineCompletionValue() *InlineCompletion { return d.inlineCompletion }
