package handlers

import (
	"strings"
	"time"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/runtime"
)

// InlineResult is one LSP inline-completion response before it has
// been converted into a ghost-text annotation.
type InlineResult struct {
	ReplaceRange rope.Range
	Text         string
}

// InlineProvider produces inline completions for a cursor position.
type InlineProvider interface {
	InlineComplete(doc *document.Document, cursor int) (InlineResult, bool)
}

// GhostKind says how one rendered line of ghost text is placed: a decoration
// after existing content, an overlay replacing characters in place, or
// a virtual line with nothing beneath it in the real document.
type GhostKind int

const (
	GhostDecoration GhostKind = iota
	GhostOverlay
	GhostVirtualLine
)

type GhostLine struct {
	Kind GhostKind
	Text string
}

// InlineCompletionMsg carries a resolved ghost-text proposal back to
// the editor.
type InlineCompletionMsg struct {
	Generation int
	Lines      []GhostLine
}

// InlineCompletionCoordinator debounces keystrokes while in Insert
// mode, then renders multi-line ghost text with end-of-line vs.
// mid-line placement rules.
type InlineCompletionCoordinator struct {
	loop     *runtime.Loop
	debounce *runtime.DebounceState
	provider InlineProvider
	tabWidth int
}

// NewInlineCompletionCoordinator creates a coordinator debounced at
// 150ms.
func NewInlineCompletionCoordinator(loop *runtime.Loop, provider InlineProvider, tabWidth int) *InlineCompletionCoordinator {
	return &InlineCompletionCoordinator{
		loop:     loop,
		debounce: runtime.NewDebounceState(150 * time.Millisecond),
		provider: provider,
		tabWidth: tabWidth,
	}
}

// Trigger (re)starts the debounce timer for a cursor edit.
func (c *InlineCompletionCoordinator) Trigger(doc *document.Document, cursor int) {
	c.debounce.Trigger(func(gen int) {
		c.loop.Dispatch(func() runtime.Msg {
			result, ok := c.provider.InlineComplete(doc, cursor)
			if !ok {
				return nil
			}
			lines := c.render(doc, cursor, result)
			if lines == nil {
				return nil
			}
			return InlineCompletionMsg{Generation: gen, Lines: lines}
		})
	})
}

// Invalidate cancels any pending/in-flight proposal: called on
// DocumentDidChange, SelectionDidChange, or leaving Insert mode.
func (c *InlineCompletionCoordinator) Invalidate() {
	c.debounce.Cancel()
	c.debounce.Bump()
}

// Stale reports whether an InlineCompletionMsg's generation has been
// superseded by a newer trigger or an invalidation.
func (c *InlineCompletionCoordinator) Stale(gen int) bool { return c.debounce.Stale(gen) }

// render converts a raw InlineResult into ghost-text lines, applying
// the discard rule (cursor outside replace_range, or empty after
// skipping already-typed chars) and the end-of-line/mid-line placement
// split.
func (c *InlineCompletionCoordinator) render(doc *document.Document, cursor int, result InlineResult) []GhostLine {
	if cursor < result.ReplaceRange.From() || cursor > result.ReplaceRange.To() {
		return nil
	}

	text := doc.Text()
	insert := result.Text
	if cursor > result.ReplaceRange.From() {
		// drop the part of the completion that is already typed
		insert = strings.TrimPrefix(insert, text.Slice(result.ReplaceRange.From(), cursor).String())
	}
	lineNum := text.CharToLine(cursor)
	lineStart := text.LineToChar(lineNum)
	lineEnd := text.LineToChar(lineNum + 1)
	rawLine := text.Slice(lineStart, lineEnd).String()
	rawLine = strings.TrimRight(rawLine, "\n")
	suffix := ""
	if cursor-lineStart < len(rawLine) {
		suffix = string([]rune(rawLine)[cursor-lineStart:])
	}
	atEOL := suffix == ""

	ghostLines := strings.Split(expandTabs(insert, c.tabWidth), "\n")
	if len(ghostLines) == 0 || (len(ghostLines) == 1 && ghostLines[0] == "") {
		return nil
	}

	var out []GhostLine
	first := ghostLines[0]

	if atEOL {
		out = append(out, GhostLine{Kind: GhostDecoration, Text: first})
	} else {
		overlay := first
		var overflow string
		if len(overlay) > len(suffix) {
			overflow = overlay[len(suffix):]
			overlay = overlay[:len(suffix)]
		}
		out = append(out, GhostLine{Kind: GhostOverlay, Text: overlay})
		if overflow != "" {
			out = append(out, GhostLine{Kind: GhostDecoration, Text: overflow})
		}
	}

	for i := 1; i < len(ghostLines); i++ {
		line := ghostLines[i]
		if i == len(ghostLines)-1 && !atEOL && !strings.Contains(line, suffix) {
			line += suffix
		}
		out = append(out, GhostLine{Kind: GhostVirtualLine, Text: line})
	}

	return out
}

func expandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			spaces := tabWidth - (col % tabWidth)
			for i := 0; i < spaces; i++ {
				b.WriteByte(' ')
			}
			col += spaces
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
