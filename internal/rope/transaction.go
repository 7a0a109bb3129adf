package rope

import (
	"fmt"
	"strings"
)

// OpKind tags a single Transaction operation.
type OpKind int

const (
	OpRetain OpKind = iota
	OpInsert
	OpDelete
)

// Op is one `{retain n | insert s | delete n}` step of a Transaction.
type Op struct {
	Kind   OpKind
	N      int    // for Retain and Delete
	Insert string // for Insert
}

// Transaction is an ordered sequence of retain/insert/delete operations
// whose retains+deletes exactly cover the pre-image length.
type Transaction struct {
	ops    []Op
	preLen int
}

// Retain appends a retain of n chars.
func (t *Transaction) Retain(n int) *Transaction {
	if n <= 0 {
		return t
	}
	if l := len(t.ops); l > 0 && t.ops[l-1].Kind == OpRetain {
		t.ops[l-1].N += n
		return t
	}
	t.ops = append(t.ops, Op{Kind: OpRetain, N: n})
	return t
}

// Insert appends an insertion of s.
func (t *Transaction) Insert(s string) *Transaction {
	if s == "" {
		return t
	}
	if l := len(t.ops); l > 0 && t.ops[l-1].Kind == OpInsert {
		t.ops[l-1].Insert += s
		return t
	}
	t.ops = append(t.ops, Op{Kind: OpInsert, Insert: s})
	return t
}

// Delete appends a deletion of n chars.
func (t *Transaction) Delete(n int) *Transaction {
	if n <= 0 {
		return t
	}
	if l := len(t.ops); l > 0 && t.ops[l-1].Kind == OpDelete {
		t.ops[l-1].N += n
		return t
	}
	t.ops = append(t.ops, Op{Kind: OpDelete, N: n})
	return t
}

// Ops returns the operation list.
func (t *Transaction) Ops() []Op { return t.ops }

// Edit is a single disjoint edit {from, to, replacement} used to build a
// Transaction via Change.
type Edit struct {
	From, To int
	Replace  string
}

// Change builds a Transaction from disjoint, sorted edits against a rope
// of the given length. Overlapping edits are a programmer error and
// panic: overlapping edits are a fatal, non-recoverable error.
func Change(lenChars int, edits []Edit) *Transaction {
	t := &Transaction{preLen: lenChars}
	pos := 0
	for i, e := range edits {
		if e.From < pos {
			panic(fmt.Sprintf("rope: overlapping edit at index %d: from=%d < pos=%d", i, e.From, pos))
		}
		if e.To < e.From {
			panic(fmt.Sprintf("rope: invalid edit at index %d: to=%d < from=%d", i, e.To, e.From))
		}
		t.Retain(e.From - pos)
		if e.To > e.From {
			t.Delete(e.To - e.From)
		}
		if e.Replace != "" {
			t.Insert(e.Replace)
		}
		pos = e.To
	}
	t.Retain(lenChars - pos)
	return t
}

// ChangeBySelection is the canonical multi-cursor editing primitive:
// for each range in sel, f produces a replacement and the
// resulting per-range edits are composed into one Transaction applied
// once. Ranges are visited in document order; f receives each range's
// index in the input selection. Only the Transaction is returned.
func ChangeBySelection(lenChars int, ranges []Range, f func(i int, r Range) string) *Transaction {
	type indexed struct {
		idx int
		r   Range
	}
	sorted := make([]indexed, len(ranges))
	for i, r := range ranges {
		sorted[i] = indexed{i, r}
	}
	// stable sort by From() ascending; selections are normalized already
	// but this keeps the function safe for arbitrary callers.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].r.From() < sorted[j-1].r.From(); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	edits := make([]Edit, len(sorted))
	for i, s := range sorted {
		edits[i] = Edit{From: s.r.From(), To: s.r.To(), Replace: f(s.idx, s.r)}
	}
	return Change(lenChars, edits)
}

// Apply transforms r's text according to t and returns the resulting
// Rope along with a PosMap usable to translate old positions (e.g.
// selections, diagnostics, annotations) into the new text.
func (t *Transaction) Apply(r *Rope) (*Rope, *PosMap) {
	var out strings.Builder
	pm := &PosMap{}
	oldPos, newPos := 0, 0
	for _, op := range t.ops {
		switch op.Kind {
		case OpRetain:
			out.WriteString(r.sliceChars(oldPos, oldPos+op.N))
			pm.segments = append(pm.segments, segment{oldPos, oldPos + op.N, newPos, 0})
			oldPos += op.N
			newPos += op.N
		case OpDelete:
			pm.segments = append(pm.segments, segment{oldPos, oldPos + op.N, newPos, -1})
			oldPos += op.N
		case OpInsert:
			out.WriteString(op.Insert)
			n := countChars(op.Insert)
			pm.segments = append(pm.segments, segment{oldPos, oldPos, newPos, n})
			newPos += n
		}
	}
	return New(out.String()), pm
}

func countChars(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// Len returns the sum of retain+delete, i.e. the expected pre-image
// length.
func (t *Transaction) Len() int {
	n := 0
	for _, op := range t.ops {
		if op.Kind == OpRetain || op.Kind == OpDelete {
			n += op.N
		}
	}
	return n
}

// ChangedCharsDelta returns inserted minus deleted chars, so
// t.Apply(r).LenChars() == r.LenChars() + delta.
func (t *Transaction) ChangedCharsDelta() int {
	delta := 0
	for _, op := range t.ops {
		switch op.Kind {
		case OpInsert:
			delta += countChars(op.Insert)
		case OpDelete:
			delta -= op.N
		}
	}
	return delta
}

// Invert produces the inverse transaction given the pre-image rope, such
// that t.Invert(r).Apply(t.Apply(r).rope) reconstructs r.
func (t *Transaction) Invert(pre *Rope) *Transaction {
	inv := &Transaction{}
	pos := 0
	for _, op := range t.ops {
		switch op.Kind {
		case OpRetain:
			inv.Retain(op.N)
			pos += op.N
		case OpDelete:
			inv.Insert(pre.sliceChars(pos, pos+op.N))
			pos += op.N
		case OpInsert:
			inv.Delete(countChars(op.Insert))
		}
	}
	return inv
}

// Compose returns a transaction equivalent to applying a then b.
// Composition is associative.
func Compose(a, b *Transaction) *Transaction {
	out := &Transaction{preLen: a.preLen}
	ai, bi := 0, 0
	aOps, bOps := a.ops, b.ops
	// current remaining amount of the op being consumed
	var aOp, bOp Op
	var aRem, bRem int
	loadA := func() bool {
		if ai >= len(aOps) {
			return false
		}
		aOp = aOps[ai]
		ai++
		if aOp.Kind == OpInsert {
			aRem = countChars(aOp.Insert)
		} else {
			aRem = aOp.N
		}
		return true
	}
	loadB := func() bool {
		if bi >= len(bOps) {
			return false
		}
		bOp = bOps[bi]
		bi++
		if bOp.Kind == OpInsert {
			bRem = countChars(bOp.Insert)
		} else {
			bRem = bOp.N
		}
		return true
	}
	haveA, haveB := loadA(), loadB()
	aInsConsumed := 0
	for haveA || haveB {
		// A deletes pass straight through.
		if haveA && aOp.Kind == OpDelete {
			out.Delete(aRem)
			haveA = loadA()
			aInsConsumed = 0
			continue
		}
		// B inserts pass straight through.
		if haveB && bOp.Kind == OpInsert {
			out.Insert(bOp.Insert)
			haveB = loadB()
			continue
		}
		if !haveA || !haveB {
			break
		}
		n := aRem
		if bRem < n {
			n = bRem
		}
		switch {
		case aOp.Kind == OpRetain && bOp.Kind == OpRetain:
			out.Retain(n)
		case aOp.Kind == OpInsert && bOp.Kind == OpRetain:
			out.Insert(sliceString(aOp.Insert, aInsConsumed, aInsConsumed+n))
			aInsConsumed += n
		case aOp.Kind == OpInsert && bOp.Kind == OpDelete:
			aInsConsumed += n
			// insert then delete cancels out: emits nothing
		case aOp.Kind == OpRetain && bOp.Kind == OpDelete:
			out.Delete(n)
		}
		aRem -= n
		bRem -= n
		if aRem == 0 {
			haveA = loadA()
			aInsConsumed = 0
		}
		if bRem == 0 {
			haveB = loadB()
		}
	}
	return out
}

func sliceString(s string, from, to int) string {
	bf, bt, n := 0, len(s), 0
	for idx := range s {
		if n == from {
			bf = idx
		}
		if n == to {
			bt = idx
		}
		n++
	}
	if to >= n {
		bt = len(s)
	}
	return s[bf:bt]
}
