// Package formatter implements the document formatter: a lazy
// grapheme-to-visual-position iterator resolving softwrap, tab
// expansion, grapheme widths and virtual-text annotations into
// on-screen coordinates, built over riv's rope.RopeSlice and
// go-runewidth.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rivedit/riv/internal/rope"
)

// GraphemeSource distinguishes document text from virtual/inlay text
// inserted by annotations.
type GraphemeSource int

const (
	SourceDocument GraphemeSource = iota
	SourceVirtualText
)

// FormattedGrapheme is one yielded unit: a grapheme cluster plus its
// origin and the document char position it was produced from.
type FormattedGrapheme struct {
	Text      string
	Source    GraphemeSource
	DocPos    int
	IsVirtual bool
}

// VisualPos is a (row, col) screen coordinate.
type VisualPos struct {
	Row, Col int
}

// TextFormat carries the viewport-derived parameters the formatter
// needs.
type TextFormat struct {
	ViewportWidth   int
	TabWidth        int
	Softwrap        bool
	WrapIndicator   string
	MaxWrapChars    int // single-word hard-split threshold ("max_wrap")
	MaxIndentRetain int
}

// DefaultTextFormat returns the stock formatting parameters: 4-wide
// tabs, a "↪ " wrap indicator, retaining indents up to 40% of the
// viewport.
func DefaultTextFormat(viewportWidth int) TextFormat {
	return TextFormat{
		ViewportWidth:   viewportWidth,
		TabWidth:        4,
		Softwrap:        true,
		WrapIndicator:   "↪ ",
		MaxWrapChars:    viewportWidth,
		MaxIndentRetain: viewportWidth * 2 / 5,
	}
}

// Annotations supplies the overlay/virtual-text sources composed by the
// formatter, in priority order.
type Annotations struct {
	// InlineAt returns virtual text to insert just before doc position
	// pos, or "" if none. Used for inlay hints.
	InlineAt func(pos int) string
	// OverlayAt returns a substitute grapheme for doc position pos
	// (e.g. control-character placeholders), or "" to use the raw
	// grapheme.
	OverlayAt func(pos int, raw string) string
}

type queued struct {
	fg FormattedGrapheme
	vp VisualPos
}

// Iterator lazily yields (FormattedGrapheme, VisualPos) pairs. Words
// are buffered until a boundary so the softwrap decision sees the whole
// word; wrapping emits the configured wrap indicator and resets the
// column to the retained indent.
type Iterator struct {
	slice  rope.RopeSlice
	format TextFormat
	annot  Annotations

	graphemes []string
	charPos   []int // char index (relative to slice) of each grapheme

	idx      int // next grapheme to consume
	row, col int

	indentW      int  // display width of the current line's leading whitespace
	atLineStart  bool // still scanning the line's indent
	virtualLines int  // rows inserted so far by multi-line inline virtual text
	lastInline   int  // last position InlineAt fired at, to fire once per position

	queue      []queued
	emittedEOF bool
}

// NewIterator creates an iterator over slice starting at startChar
// (relative to the slice), honoring format and annot. Iteration begins
// at the nearest prior block boundary (line start), so visual columns
// are correct regardless of startChar.
func NewIterator(slice rope.RopeSlice, format TextFormat, annot Annotations, startChar int) *Iterator {
	it := &Iterator{slice: slice, format: format, annot: annot, lastInline: -1, atLineStart: true}
	pos := 0
	for _, g := range rope.GraphemesOf(slice.String()) {
		it.graphemes = append(it.graphemes, g)
		it.charPos = append(it.charPos, pos)
		pos += countChars(g)
	}
	// rewind to the start of the line containing startChar
	for i := len(it.graphemes) - 1; i >= 0; i-- {
		if it.charPos[i] < startChar && it.graphemes[i] == "\n" {
			it.idx = i + 1
			break
		}
	}
	return it
}

func countChars(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// LinePos returns the document line of the next grapheme to be yielded,
// relative to the slice.
func (it *Iterator) LinePos() int {
	if it.idx < len(it.charPos) {
		return it.slice.CharToLine(it.charPos[it.idx])
	}
	return it.slice.CharToLine(it.slice.LenChars())
}

// VisualPos returns the visual (row, col) of the next grapheme.
func (it *Iterator) VisualPos() VisualPos { return VisualPos{Row: it.row, Col: it.col} }

// VirtualLines reports how many extra visual rows inline virtual text
// has inserted so far.
func (it *Iterator) VirtualLines() int { return it.virtualLines }

func graphemeWidth(g string, col, tabWidth int) int {
	if g == "\t" {
		if tabWidth <= 0 {
			tabWidth = 1
		}
		w := tabWidth - (col % tabWidth)
		if w <= 0 {
			w = tabWidth
		}
		return w
	}
	w := runewidth.StringWidth(g)
	if w < 0 {
		w = 0
	}
	return w
}

// Next advances the iterator, returning the next (grapheme, position)
// pair and true, or a zero value and false once the trailing EOF
// placeholder has been emitted. The EOF placeholder anchors cursor
// rendering past end of text.
func (it *Iterator) Next() (FormattedGrapheme, VisualPos, bool) {
	for len(it.queue) == 0 && it.idx < len(it.graphemes) {
		it.fill()
	}
	if len(it.queue) == 0 {
		if it.emittedEOF {
			return FormattedGrapheme{}, VisualPos{}, false
		}
		it.emittedEOF = true
		endPos := it.slice.LenChars()
		return FormattedGrapheme{Text: "", Source: SourceDocument, DocPos: endPos}, it.VisualPos(), true
	}
	q := it.queue[0]
	it.queue = it.queue[1:]
	return q.fg, q.vp, true
}

// fill consumes the next word (or single whitespace/newline grapheme)
// into the queue.
func (it *Iterator) fill() {
	pos := it.charPos[it.idx]

	if it.annot.InlineAt != nil && pos != it.lastInline {
		if v := it.annot.InlineAt(pos); v != "" {
			it.lastInline = pos
			it.emitVirtual(v, pos)
			return
		}
		it.lastInline = pos
	}

	g := it.graphemes[it.idx]
	switch {
	case g == "\n":
		it.enqueue(FormattedGrapheme{Text: g, Source: SourceDocument, DocPos: pos}, VisualPos{it.row, it.col})
		it.idx++
		it.row++
		it.col = 0
		it.indentW = 0
		it.atLineStart = true
	case g == " " || g == "\t":
		d := it.display(pos, g)
		w := graphemeWidth(d, it.col, it.format.TabWidth)
		if it.atLineStart {
			it.indentW += w
		}
		it.wrapIfNeeded(w, pos)
		it.emitDoc(d, pos, w)
		it.idx++
	default:
		it.fillWord()
	}
}

// fillWord buffers one run of non-whitespace graphemes, decides the
// wrap before emitting any of them, and hard-splits words longer than
// MaxWrapChars so no grapheme is ever cut.
func (it *Iterator) fillWord() {
	it.atLineStart = false
	start := it.idx
	wordW := 0
	for it.idx < len(it.graphemes) {
		g := it.graphemes[it.idx]
		if g == "\n" || g == " " || g == "\t" {
			break
		}
		if it.idx > start && it.hasInline(it.charPos[it.idx]) {
			break // let fill() insert the annotation before the rest
		}
		wordW += runewidth.StringWidth(it.display(it.charPos[it.idx], g))
		it.idx++
	}
	end := it.idx

	maxWrap := it.format.MaxWrapChars
	if maxWrap <= 0 {
		maxWrap = it.format.ViewportWidth
	}
	if it.softwrapping() && it.col+wordW >= it.format.ViewportWidth &&
		wordW <= maxWrap && it.col > it.wrapIndent() {
		it.wrapLine(it.charPos[start])
	}
	for i := start; i < end; i++ {
		pos := it.charPos[i]
		g := it.display(pos, it.graphemes[i])
		w := runewidth.StringWidth(g)
		it.wrapIfNeeded(w, pos)
		it.emitDoc(g, pos, w)
	}
}

func (it *Iterator) hasInline(pos int) bool {
	return it.annot.InlineAt != nil && it.annot.InlineAt(pos) != ""
}

// display resolves the overlay substitution for the grapheme at pos.
func (it *Iterator) display(pos int, raw string) string {
	if it.annot.OverlayAt != nil {
		if rep := it.annot.OverlayAt(pos, raw); rep != "" {
			return rep
		}
	}
	return raw
}

func (it *Iterator) softwrapping() bool {
	return it.format.Softwrap && it.format.ViewportWidth > 0
}

// wrapIfNeeded hard-wraps before a single grapheme that would overflow
// the viewport, the mid-word split for overlong words.
func (it *Iterator) wrapIfNeeded(w int, pos int) {
	if !it.softwrapping() {
		return
	}
	if it.col+w > it.format.ViewportWidth && it.col > it.wrapBase() {
		it.wrapLine(pos)
	}
}

// wrapLine advances to the next visual row, resets the column to the
// retained indent and emits the wrap indicator there.
func (it *Iterator) wrapLine(pos int) {
	it.row++
	it.col = it.wrapIndent()
	if it.format.WrapIndicator != "" {
		w := runewidth.StringWidth(it.format.WrapIndicator)
		it.enqueue(FormattedGrapheme{Text: it.format.WrapIndicator, Source: SourceVirtualText, IsVirtual: true, DocPos: pos}, VisualPos{it.row, it.col})
		it.col += w
	}
}

// wrapIndent is the column wrapped lines restart at: the line's indent
// when it is small enough to retain, 0 otherwise.
func (it *Iterator) wrapIndent() int {
	if it.indentW <= it.format.MaxIndentRetain {
		return it.indentW
	}
	return 0
}

// wrapBase is the first usable column on a wrapped row; wrapping is
// suppressed at or before it so a too-narrow viewport cannot wrap
// forever.
func (it *Iterator) wrapBase() int {
	return it.wrapIndent() + runewidth.StringWidth(it.format.WrapIndicator)
}

func (it *Iterator) emitDoc(text string, pos, w int) {
	it.enqueue(FormattedGrapheme{Text: text, Source: SourceDocument, DocPos: pos}, VisualPos{it.row, it.col})
	it.col += w
}

// emitVirtual inserts inline virtual text before pos. Lines after the
// first become additional visual rows, counted in virtualLines.
func (it *Iterator) emitVirtual(v string, pos int) {
	lines := strings.Split(v, "\n")
	for i, line := range lines {
		if i > 0 {
			it.row++
			it.col = 0
			it.virtualLines++
		}
		if line == "" {
			continue
		}
		w := runewidth.StringWidth(line)
		it.enqueue(FormattedGrapheme{Text: line, Source: SourceVirtualText, IsVirtual: true, DocPos: pos}, VisualPos{it.row, it.col})
		it.col += w
	}
}

func (it *Iterator) enqueue(fg FormattedGrapheme, vp VisualPos) {
	it.queue = append(it.queue, queued{fg, vp})
}
