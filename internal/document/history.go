package document

import (
	"time"

	"github.com/google/btree"
	"github.com/rivedit/riv/internal/rope"
)

// HistoryNode is one entry in the undo tree: a transaction plus its
// inverse, timestamped so earlier()/later() can navigate by wall-clock
// order.
//
// Nodes are stored in a flat arena (a slice) and indexed twice: a linear
// parent/child chain for undo/redo, and a google/btree.BTreeG ordered by
// push sequence for earlier()/later() jumps that aren't strict undo/redo
// (e.g. "go to the change before this one regardless of branch"). This
// follows the same arena-plus-index, no-parent-pointers shape used
// elsewhere in riv for bounded-history structures.
type HistoryNode struct {
	seq     int64
	At      time.Time
	Tx      *rope.Transaction
	Inverse *rope.Transaction
	Origin  string
}

// History is a linear undo/redo stack over HistoryNodes, plus a
// push-ordered index for earlier/later navigation.
type History struct {
	nodes   []HistoryNode
	cursor  int // index of the next node a Redo would apply; Undo applies nodes[cursor-1]
	bySeq   *btree.BTreeG[HistoryNode]
	seq     int64
	nowFunc func() time.Time
}

func lessBySeq(a, b HistoryNode) bool { return a.seq < b.seq }

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		bySeq:   btree.NewG(32, lessBySeq),
		nowFunc: time.Now,
	}
}

// Push records a newly-applied transaction. Any redo tail is discarded,
// matching standard undo-tree semantics (a new edit after undoing
// prunes the future).
func (h *History) Push(tx, inverse *rope.Transaction, origin string) {
	h.nodes = h.nodes[:h.cursor]
	h.seq++
	node := HistoryNode{seq: h.seq, At: h.nowFunc(), Tx: tx, Inverse: inverse, Origin: origin}
	h.nodes = append(h.nodes, node)
	h.cursor++
	h.bySeq.ReplaceOrInsert(node)
}

// CanUndo reports whether there is a transaction to undo.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether there is a transaction to redo.
func (h *History) CanRedo() bool { return h.cursor < len(h.nodes) }

// Undo returns the inverse transaction to apply and moves the cursor
// back, or (nil, false) if there is nothing to undo.
func (h *History) Undo() (*rope.Transaction, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.nodes[h.cursor].Inverse, true
}

// Redo returns the forward transaction to re-apply and moves the cursor
// forward, or (nil, false) if there is nothing to redo.
func (h *History) Redo() (*rope.Transaction, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	tx := h.nodes[h.cursor].Tx
	h.cursor++
	return tx, true
}

// Earlier finds the most recent node strictly before t, by wall clock,
// regardless of the undo/redo cursor position.
func (h *History) Earlier(t time.Time) (HistoryNode, bool) {
	var found HistoryNode
	ok := false
	h.bySeq.Descend(func(n HistoryNode) bool {
		if n.At.Before(t) {
			found = n
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// Later finds the oldest node strictly after t.
func (h *History) Later(t time.Time) (HistoryNode, bool) {
	var found HistoryNode
	ok := false
	h.bySeq.Ascend(func(n HistoryNode) bool {
		if n.At.After(t) {
			found = n
			ok = true
			return false
		}
		return true
	})
	return found, ok
}
