// Increment/decrement under the cursor: ISO dates bump the field the
// cursor sits on, plain integers bump numerically.
package editor

import (
	"strconv"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
	"github.com/rivedit/riv/internal/textutil"
	"github.com/rivedit/riv/internal/view"
)

func cmdIncrement(delta int) commandFunc {
	return func(e *Editor) Effect {
		doc := e.FocusedDocument()
		if doc == nil {
			return Effect{}
		}
		v := e.Tree.Focus()
		sel := doc.Selection(document.ViewID(v.ID))
		cursor := sel.Primary().Head

		line := doc.Text().CharToLine(cursor)
		lineStart := doc.Text().LineToChar(line)
		lineText := doc.Text().Line(line)
		col := cursor - lineStart

		if from, to, replacement, ok := incrementAt(lineText, col, delta); ok {
			tx := rope.Change(doc.Text().LenChars(), []rope.Edit{{
				From: lineStart + from, To: lineStart + to, Replace: replacement,
			}})
			doc.ApplyTransaction(tx, "increment")
			restoreCursor(e, doc, v, lineStart+from)
			return Effect{}
		}
		return Effect{Status: "nothing to increment under cursor", IsError: true}
	}
}

func restoreCursor(e *Editor, doc *document.Document, v *view.View, pos int) {
	doc.SetSelection(document.ViewID(v.ID), selection.Single(rope.Range{Anchor: pos, Head: pos}))
}

// incrementAt resolves the token under col in lineText: an ISO date is
// bumped on the field the cursor sits in (year, month or day column);
// failing that, a run of digits is bumped numerically. Offsets are in
// chars; lineText is assumed ASCII-compatible around the match (dates
// and integers are).
func incrementAt(lineText string, col, delta int) (from, to int, replacement string, ok bool) {
	if start, end, found := textutil.FindDateAt(lineText, col); found {
		field := textutil.FieldDay
		switch {
		case col-start < 5:
			field = textutil.FieldYear
		case col-start < 8:
			field = textutil.FieldMonth
		}
		next, err := textutil.IncrementDate(lineText[start:end], field, delta)
		if err == nil {
			return start, end, next, true
		}
	}

	rs := []rune(lineText)
	if col >= len(rs) {
		return 0, 0, "", false
	}
	digitFrom, digitTo := col, col
	for digitFrom > 0 && isDigit(rs[digitFrom-1]) {
		digitFrom--
	}
	for digitTo < len(rs) && isDigit(rs[digitTo]) {
		digitTo++
	}
	if digitFrom == digitTo {
		return 0, 0, "", false
	}
	n, err := strconv.Atoi(string(rs[digitFrom:digitTo]))
	if err != nil {
		return 0, 0, "", false
	}
	return digitFrom, digitTo, strconv.Itoa(n + delta), true
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
