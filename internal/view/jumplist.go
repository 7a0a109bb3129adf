package view

import (
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/selection"
)

// Jump is one entry of a view's jumplist: the document and selection to
// return to.
type Jump struct {
	Doc       document.ID
	Selection selection.Selection
}

// JumpList is a bounded stack with a cursor for forward/backward
// navigation; pushing clears the forward tail.
type JumpList struct {
	entries []Jump
	cursor  int
	cap     int
}

// NewJumpList creates an empty jumplist bounded to capacity n.
func NewJumpList(n int) *JumpList {
	return &JumpList{cap: n}
}

// Push records a new jump, discarding any forward (redo) entries.
func (j *JumpList) Push(jump Jump) {
	j.entries = j.entries[:j.cursor]
	j.entries = append(j.entries, jump)
	if len(j.entries) > j.cap {
		j.entries = j.entries[len(j.entries)-j.cap:]
	}
	j.cursor = len(j.entries)
}

// Backward moves the cursor back one entry and returns it.
func (j *JumpList) Backward() (Jump, bool) {
	if j.cursor == 0 {
		return Jump{}, false
	}
	j.cursor--
	return j.entries[j.cursor], true
}

// Forward moves the cursor forward one entry and returns it.
func (j *JumpList) Forward() (Jump, bool) {
	if j.cursor >= len(j.entries) {
		return Jump{}, false
	}
	jump := j.entries[j.cursor]
	j.cursor++
	return jump, true
}
