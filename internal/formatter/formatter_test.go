package formatter

import (
	"testing"

	"github.com/rivedit/riv/internal/rope"
)

func TestVisualPositionMonotonic(t *testing.T) {
	r := rope.New("the quick brown fox jumps over the lazy dog\nsecond line here\n")
	format := DefaultTextFormat(20)
	it := NewIterator(r.Slice(0, r.LenChars()), format, Annotations{}, 0)

	var lastRow, lastCol = -1, -1
	for {
		_, vp, ok := it.Next()
		if !ok {
			break
		}
		if vp.Row < lastRow || (vp.Row == lastRow && vp.Col < lastCol) {
			t.Fatalf("visual position went backwards: (%d,%d) after (%d,%d)", vp.Row, vp.Col, lastRow, lastCol)
		}
		lastRow, lastCol = vp.Row, vp.Col
	}
}

func TestTabExpansion(t *testing.T) {
	r := rope.New("a\tb")
	format := DefaultTextFormat(0)
	format.Softwrap = false
	it := NewIterator(r.Slice(0, r.LenChars()), format, Annotations{}, 0)

	_, vp0, _ := it.Next() // 'a' at col 0
	if vp0.Col != 0 {
		t.Fatalf("want col 0 got %d", vp0.Col)
	}
	_, vp1, _ := it.Next() // '\t' at col 1
	if vp1.Col != 1 {
		t.Fatalf("want col 1 got %d", vp1.Col)
	}
	_, vp2, _ := it.Next() // 'b' after tab expands to next multiple of 4
	if vp2.Col != 4 {
		t.Fatalf("want col 4 got %d", vp2.Col)
	}
}

func TestSoftwrapKeepsWordsWhole(t *testing.T) {
	r := rope.New("aaa bbb ccc ddd")
	format := DefaultTextFormat(10)
	it := NewIterator(r.Slice(0, r.LenChars()), format, Annotations{}, 0)

	rowOf := map[int]int{} // doc pos -> visual row
	var indicatorRows []int
	for {
		g, vp, ok := it.Next()
		if !ok {
			break
		}
		if g.IsVirtual {
			indicatorRows = append(indicatorRows, vp.Row)
			continue
		}
		if g.Text != "" {
			rowOf[g.DocPos] = vp.Row
		}
	}
	// "ccc" (pos 8..10) does not fit on row 0 and must move as a unit
	if rowOf[8] != rowOf[10] {
		t.Fatalf("word split across rows: pos 8 on row %d, pos 10 on row %d", rowOf[8], rowOf[10])
	}
	if rowOf[8] == rowOf[0] {
		t.Fatal("expected ccc to wrap to a new row")
	}
	if len(indicatorRows) == 0 {
		t.Fatal("expected a wrap indicator on the wrapped row")
	}
	if indicatorRows[0] != rowOf[8] {
		t.Fatalf("indicator on row %d, wrapped word on row %d", indicatorRows[0], rowOf[8])
	}
}

func TestSoftwrapHardSplitsOverlongWord(t *testing.T) {
	r := rope.New("abcdefghijklmnopqrstuvwxyz")
	format := DefaultTextFormat(10)
	format.MaxWrapChars = 8
	it := NewIterator(r.Slice(0, r.LenChars()), format, Annotations{}, 0)

	maxRow := 0
	for {
		g, vp, ok := it.Next()
		if !ok {
			break
		}
		if vp.Row > maxRow {
			maxRow = vp.Row
		}
		if !g.IsVirtual && g.Text != "" && vp.Col >= format.ViewportWidth {
			t.Fatalf("grapheme %q at col %d overflows viewport", g.Text, vp.Col)
		}
	}
	if maxRow == 0 {
		t.Fatal("expected the overlong word to hard-split across rows")
	}
}

func TestInlineVirtualText(t *testing.T) {
	r := rope.New("ab")
	format := DefaultTextFormat(0)
	format.Softwrap = false
	annot := Annotations{InlineAt: func(pos int) string {
		if pos == 1 {
			return ": int"
		}
		return ""
	}}
	it := NewIterator(r.Slice(0, r.LenChars()), format, annot, 0)

	_, vpA, _ := it.Next() // 'a'
	gHint, vpHint, _ := it.Next()
	gB, vpB, _ := it.Next()

	if vpA.Col != 0 {
		t.Fatalf("a at col %d", vpA.Col)
	}
	if !gHint.IsVirtual || gHint.Text != ": int" || vpHint.Col != 1 {
		t.Fatalf("hint wrong: %+v at %+v", gHint, vpHint)
	}
	if gB.Text != "b" || vpB.Col != 6 {
		t.Fatalf("b not shifted past hint: %+v at %+v", gB, vpB)
	}
}

func TestOverlaySubstitution(t *testing.T) {
	r := rope.New("x y")
	format := DefaultTextFormat(0)
	format.Softwrap = false
	annot := Annotations{OverlayAt: func(pos int, raw string) string {
		if raw == " " {
			return "."
		}
		return ""
	}}
	it := NewIterator(r.Slice(0, r.LenChars()), format, annot, 0)

	it.Next()
	g, _, _ := it.Next()
	if g.Text != "." {
		t.Fatalf("overlay not applied: got %q", g.Text)
	}
}
