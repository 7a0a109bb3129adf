// Package rope implements the document text model: an
// immutable-snapshot string plus a line-start index. Char-to-line lookup
// is a binary search over that index; char/byte index conversion and
// slicing scan the string. Apply always rebuilds the backing string via a
// single strings.Builder pass, so there is no long-lived mutable tree
// to keep balanced; this trades away a true rope's O(log n) edit
// complexity for O(n) edits with much simpler invariants, which is
// acceptable for the buffer sizes riv targets. The public API (slice,
// line-to-char, char-to-line, chunk and grapheme iteration) matches
// what callers of a "real" rope need, so the backing implementation
// can be swapped later without touching callers.
package rope

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Rope is an immutable snapshot of document text addressed by char
// (Unicode scalar) index. Byte indices are only used internally and at
// external boundaries (LSP, disk I/O).
type Rope struct {
	text       string
	lineStarts []int // char index of the start of each line; lineStarts[0] == 0
}

// New builds a Rope from a string, normalizing nothing: line-ending
// normalization is the caller's job (see document.Open) because it is a
// file-load-time decision, not a rope invariant.
func New(s string) *Rope {
	return &Rope{text: s, lineStarts: computeLineStarts(s)}
}

func computeLineStarts(s string) []int {
	starts := []int{0}
	charIdx := 0
	for _, r := range s {
		charIdx++
		if r == '\n' {
			starts = append(starts, charIdx)
		}
	}
	return starts
}

// LenChars returns the number of Unicode scalar values in the rope.
func (r *Rope) LenChars() int {
	n := 0
	for range r.text {
		n++
	}
	return n
}

// LenLines returns the number of lines (a trailing newline adds a final
// empty line, matching ropey's convention).
func (r *Rope) LenLines() int {
	return len(r.lineStarts)
}

// LineToChar returns the char index of the start of line n.
func (r *Rope) LineToChar(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(r.lineStarts) {
		return r.LenChars()
	}
	return r.lineStarts[line]
}

// CharToLine returns the line number containing char index c.
func (r *Rope) CharToLine(c int) int {
	// binary search over lineStarts for the last start <= c
	lo, hi := 0, len(r.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if r.lineStarts[mid] <= c {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Line returns the text of line n, including its line ending if present.
func (r *Rope) Line(n int) string {
	start := r.LineToChar(n)
	var end int
	if n+1 < len(r.lineStarts) {
		end = r.lineStarts[n+1]
	} else {
		end = r.LenChars()
	}
	return r.sliceChars(start, end)
}

// CharToByte converts a char index into a byte offset into the UTF-8
// encoding of the rope's text. External protocols (LSP, disk) speak in
// byte or UTF-16 units; this is the boundary conversion.
func (r *Rope) CharToByte(c int) int {
	n := 0
	for i := range r.text {
		if n == c {
			return i
		}
		n++
	}
	return len(r.text)
}

// ByteToChar converts a byte offset into a char index.
func (r *Rope) ByteToChar(b int) int {
	n := 0
	for i := range r.text {
		if i >= b {
			return n
		}
		n++
	}
	return n
}

func (r *Rope) sliceChars(from, to int) string {
	bf, bt := r.CharToByte(from), r.CharToByte(to)
	return r.text[bf:bt]
}

// Slice returns a RopeSlice over [from, to) char indices.
func (r *Rope) Slice(from, to int) RopeSlice {
	if from < 0 {
		from = 0
	}
	if to > r.LenChars() {
		to = r.LenChars()
	}
	return RopeSlice{rope: r, from: from, to: to}
}

// String returns the full text.
func (r *Rope) String() string { return r.text }

// Chunks iterates contiguous chunks of the rope's text. With a
// string-backed implementation there is exactly one chunk, but callers
// are written against the iterator contract so a future chunked
// implementation is a drop-in.
func (r *Rope) Chunks() func(yield func(string) bool) {
	return func(yield func(string) bool) {
		if r.text != "" {
			yield(r.text)
		}
	}
}

// RopeSlice is a read-only view over a char range of a Rope.
type RopeSlice struct {
	rope     *Rope
	from, to int
}

// LenChars returns the number of chars in the slice.
func (s RopeSlice) LenChars() int { return s.to - s.from }

// String materializes the slice's text.
func (s RopeSlice) String() string { return s.rope.sliceChars(s.from, s.to) }

// Graphemes iterates extended grapheme clusters within the slice,
// following Unicode UAX #29 segmentation via clipperhouse/uax29.
func (s RopeSlice) Graphemes() []string {
	return GraphemesOf(s.String())
}

// GraphemesOf splits text into extended grapheme clusters.
func GraphemesOf(text string) []string {
	var out []string
	seg := graphemes.FromString(text)
	for seg.Next() {
		out = append(out, seg.Value())
	}
	return out
}

// CharToLine returns the line containing char c, relative to the
// slice's start.
func (s RopeSlice) CharToLine(c int) int {
	return s.rope.CharToLine(s.from+c) - s.rope.CharToLine(s.from)
}

// SplitWords splits s into word-boundary chunks using grapheme-aware
// scanning, used by the formatter's softwrap word-buffering algorithm.
func SplitWords(s string) []string {
	var words []string
	var cur strings.Builder
	prevSpace := false
	first := true
	seg := graphemes.FromString(s)
	for seg.Next() {
		g := seg.Value()
		isSpace := g == " " || g == "\t"
		if !first && isSpace != prevSpace {
			words = append(words, cur.String())
			cur.Reset()
		}
		cur.WriteString(g)
		prevSpace = isSpace
		first = false
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}
