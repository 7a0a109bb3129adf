package lsp

import (
	"github.com/rivedit/riv/internal/rope"
)

// Position is an LSP line/character position, in whatever OffsetEncoding
// the client negotiated.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is an LSP start/end position pair.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// CharToPosition converts a rope char offset into an LSP Position in
// the client's negotiated encoding.
func CharToPosition(r *rope.Rope, charOffset int, enc OffsetEncoding) Position {
	line := r.CharToLine(charOffset)
	lineStart := r.LineToChar(line)
	lineText := []rune(r.Slice(lineStart, charOffset).String())

	switch enc {
	case OffsetUTF8:
		return Position{Line: line, Character: len([]byte(string(lineText)))}
	case OffsetUTF32:
		return Position{Line: line, Character: len(lineText)}
	default: // UTF-16
		units := 0
		for _, c := range lineText {
			units += utf16RuneLen(c)
		}
		return Position{Line: line, Character: units}
	}
}

// PositionToChar converts an LSP Position back into a rope char offset.
func PositionToChar(r *rope.Rope, pos Position, enc OffsetEncoding) int {
	lineStart := r.LineToChar(pos.Line)
	lineEnd := r.LineToChar(pos.Line + 1)
	if lineEnd == lineStart && pos.Line+1 >= r.LenLines() {
		lineEnd = r.LenChars()
	}
	lineText := []rune(r.Slice(lineStart, lineEnd).String())

	switch enc {
	case OffsetUTF8:
		remaining := pos.Character
		for i, c := range lineText {
			sz := len(string(c))
			if remaining < sz {
				return lineStart + i
			}
			remaining -= sz
		}
		return lineStart + len(lineText)
	case OffsetUTF32:
		if pos.Character > len(lineText) {
			return lineStart + len(lineText)
		}
		return lineStart + pos.Character
	default: // UTF-16
		units := 0
		for i, c := range lineText {
			if units >= pos.Character {
				return lineStart + i
			}
			units += utf16RuneLen(c)
		}
		return lineStart + len(lineText)
	}
}

func utf16RuneLen(r rune) int {
	if r < 0x10000 {
		return 1
	}
	return 2
}
