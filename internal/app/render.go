// Render pass: walks the focused View's document through the formatter
// with the highlight overlay composition laid on top, and writes styled
// rows over lipgloss for the bubbletea TUI surface.
package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/formatter"
	"github.com/rivedit/riv/internal/highlight"
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/styles"
	"github.com/rivedit/riv/internal/ui"
	"github.com/rivedit/riv/internal/view"
)

// View composes the full frame: the split tree's documents, the
// terminal panel (when visible), the status line, and any dialog or
// palette floating above it all.
func (m *Model) View() string {
	if !m.ready {
		return ""
	}

	docArea := m.editor.Tree.RenderWith(
		func(v *view.View) string {
			d, ok := m.editor.Documents[v.Doc]
			if !ok {
				return ""
			}
			return m.renderDocument(d, v)
		},
		func(parts ...string) string { return lipgloss.JoinHorizontal(lipgloss.Top, parts...) },
		func(parts ...string) string { return lipgloss.JoinVertical(lipgloss.Left, parts...) },
	)

	sections := []string{docArea}
	if m.terminal.Visible() {
		sections = append(sections, m.terminal.View(m.width))
	}
	sections = append(sections, m.renderStatusLine(m.width))
	screen := strings.Join(sections, "\n")

	if m.palette != nil {
		return ui.OverlayModal(screen, m.palette.View(), m.width, m.height)
	}
	if m.quitConfirm != nil {
		dialog := m.quitConfirm.Render(m.width, m.height, m.modalMouse)
		return ui.OverlayModal(screen, dialog, m.width, m.height)
	}
	return screen
}

// charHighlights replays a composed event stream into a flat per-char
// highlight table so the formatter's grapheme-at-a-time iteration can
// look styles up in O(1) instead of re-walking the event stream.
func charHighlights(events []highlight.Event, length int) []highlight.Highlight {
	out := make([]highlight.Highlight, length)
	var stack []highlight.Highlight
	top := func() highlight.Highlight {
		if len(stack) == 0 {
			return hlNone
		}
		return stack[len(stack)-1]
	}
	for _, ev := range events {
		switch ev.Kind {
		case highlight.EventHighlightStart:
			stack = append(stack, ev.Highlight)
		case highlight.EventHighlightEnd:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case highlight.EventSource:
			h := top()
			end := ev.End
			if end > length {
				end = length
			}
			for i := ev.Start; i < end; i++ {
				if i >= 0 {
					out[i] = h
				}
			}
		}
	}
	return out
}

// buildDocumentEvents produces the full composed highlight stream for
// doc's current text: syntax tokens, then diagnostics, then the
// cursor/selection overlay for the given view.
func buildDocumentEvents(doc *document.Document, v *view.View) []highlight.Event {
	text := doc.Text().String()
	var events []highlight.Event
	if doc.Language != "" {
		if toks, err := syntaxEngine.Tokenize(string(doc.Language), text); err == nil {
			events = toks
		}
	}

	overlays := []highlight.Overlay{
		highlight.DiagnosticsOverlay{Doc: doc, Theme: severityHighlight},
	}

	sel := doc.Selection(document.ViewID(v.ID))
	ranges := sel.Ranges()
	cursorRanges := make([]highlight.RangeHighlight, len(ranges))
	rev := make([]bool, len(ranges))
	heads := make([]int, len(ranges))
	for i, r := range ranges {
		cursorRanges[i] = highlight.RangeHighlight{From: r.From(), To: r.To()}
		rev[i] = r.Head < r.Anchor
		heads[i] = r.Head
	}
	overlays = append(overlays, highlight.CursorOverlay{
		Ranges:       cursorRanges,
		CursorHigh:   hlCursor,
		SelectHigh:   hlSelection,
		DocLenChars:  doc.Text().LenChars(),
		PrimaryIsRev: rev,
		Heads:        heads,
	})

	return highlight.Compose(events, overlays...)
}

// renderDocument draws doc's text inside v's area, softwrapped per
// cfg, styled per the composed highlight stream.
func (m *Model) renderDocument(doc *document.Document, v *view.View) string {
	width, height := v.Area.W, v.Area.H
	if width <= 0 || height <= 0 {
		return ""
	}

	tf := formatter.DefaultTextFormat(width)
	tf.TabWidth = m.cfg.Editor.TabWidth
	tf.Softwrap = m.cfg.Editor.SoftWrap.Enable
	tf.WrapIndicator = m.cfg.Editor.SoftWrap.WrapIndicator
	tf.MaxWrapChars = m.cfg.Editor.SoftWrap.MaxWrap
	tf.MaxIndentRetain = m.cfg.Editor.SoftWrap.MaxIndentRetain

	length := doc.Text().LenChars()
	hls := charHighlights(buildDocumentEvents(doc, v), length)

	slice := doc.Text().Slice(0, length)
	it := formatter.NewIterator(slice, tf, m.buildAnnotations(doc, v), 0)

	rows := make([][]styledCell, height)
	for {
		g, pos, ok := it.Next()
		if !ok {
			break
		}
		r := pos.Row - v.Offset.Row
		if r < 0 {
			continue
		}
		if r >= height {
			break
		}
		h := hlNone
		if g.Source == formatter.SourceDocument && g.DocPos >= 0 && g.DocPos < len(hls) {
			h = hls[g.DocPos]
		} else if g.IsVirtual {
			h = hlVirtualText
		}
		rows[r] = append(rows[r], styledCell{text: g.Text, hl: h})
	}

	lines := make([]string, height)
	for i, row := range rows {
		lines[i] = renderRow(row, width)
	}
	return strings.Join(lines, "\n")
}

// buildAnnotations merges the view's cached inlay hints with the
// current ghost-text proposal into one formatter annotation source.
// Ghost text is anchored at the focused cursor; hint labels at their
// resolved positions. When both land on the same char the hint comes
// first so the ghost proposal reads as a continuation of the typed
// text.
func (m *Model) buildAnnotations(doc *document.Document, v *view.View) formatter.Annotations {
	byPos := map[int]string{}
	if hs := doc.InlayHints(document.ViewID(v.ID)); hs != nil {
		for _, h := range hs.Hints {
			byPos[h.Pos] += h.Label
		}
	}
	if len(m.ghostLines) > 0 && m.editor.Tree.Focus() == v {
		cursor := doc.Selection(document.ViewID(v.ID)).Primary().Head
		var ghost strings.Builder
		for i, gl := range m.ghostLines {
			if i > 0 {
				ghost.WriteByte('\n')
			}
			ghost.WriteString(gl.Text)
		}
		byPos[cursor] += ghost.String()
	}
	if len(byPos) == 0 {
		return formatter.Annotations{}
	}
	return formatter.Annotations{InlineAt: func(pos int) string { return byPos[pos] }}
}

type styledCell struct {
	text string
	hl   highlight.Highlight
}

// renderRow merges consecutive same-highlight cells into one lipgloss
// Render call.
func renderRow(cells []styledCell, width int) string {
	var b strings.Builder
	col := 0
	i := 0
	for i < len(cells) && col < width {
		h := cells[i].hl
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].hl == h && col < width {
			run.WriteString(cells[j].text)
			col += runewidth.StringWidth(cells[j].text)
			j++
		}
		b.WriteString(styleFor(h).Render(run.String()))
		i = j
	}
	if col < width {
		b.WriteString(strings.Repeat(" ", width-col))
	}
	return b.String()
}

// renderStatusLine draws the bottom status bar: mode, document path
// and dirty flag, cursor position, and any pending status message.
func (m *Model) renderStatusLine(width int) string {
	doc := m.editor.FocusedDocument()
	left := "[" + string(m.editor.Mode) + "]"
	if doc != nil {
		name := doc.Path
		if name == "" {
			name = "[scratch]"
		}
		if doc.IsModified() {
			name += " [+]"
		}
		left += " " + name
	}

	right := ""
	if doc != nil {
		v := m.editor.Tree.Focus()
		sel := doc.Selection(document.ViewID(v.ID))
		line, col := docLineCol(doc.Text(), sel.Primary().Head)
		right = lineColLabel(line, col)
	}

	fg := styles.TextPrimary
	if m.statusIsError {
		fg = styles.Error
	}
	style := lipgloss.NewStyle().Foreground(fg).Width(width)
	mid := ""
	if m.editor.Mode == keymap.ModeCommand {
		mid = ":" + m.editor.CommandLine
	} else if m.status != "" {
		mid = m.status
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left
	if mid != "" {
		line += strings.Repeat(" ", gap/2+1) + mid + strings.Repeat(" ", gap-gap/2-1) + right
	} else {
		line += strings.Repeat(" ", gap) + right
	}
	return style.Render(line)
}

func docLineCol(r *rope.Rope, charPos int) (line, col int) {
	line = r.CharToLine(charPos)
	col = charPos - r.LineToChar(line)
	return
}

func lineColLabel(line, col int) string {
	return strconv.Itoa(line+1) + ":" + strconv.Itoa(col+1)
}
