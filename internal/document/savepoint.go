package document

import (
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
)

// Savepoint is a weak handle capturing a selection snapshot and the
// document version at capture time, so a later operation can restore
// the snapshot, remapped through the edits applied since capture.
type Savepoint struct {
	doc       *Document
	selection selection.Selection
	version   int64
	revoked   bool
}

// Savepoint captures the current selection for view v.
func (d *Document) Savepoint(v ViewID) *Savepoint {
	sp := &Savepoint{doc: d, selection: d.Selection(v), version: d.version}
	d.savepoints[sp] = struct{}{}
	return sp
}

// Release drops the savepoint; it stops receiving position-map updates.
func (sp *Savepoint) Release() {
	if sp.revoked {
		return
	}
	sp.revoked = true
	delete(sp.doc.savepoints, sp)
}

// Revive returns the captured selection, remapped through every edit
// applied since capture, or (Selection{}, false) if the savepoint was
// released or the document's version is below the captured one.
func (sp *Savepoint) Revive() (selection.Selection, bool) {
	if sp.revoked || sp.doc.version < sp.version {
		return selection.Selection{}, false
	}
	return sp.selection, true
}

func (sp *Savepoint) remap(pm *rope.PosMap) {
	sp.selection = sp.selection.Map(pm, rope.AssocAfter)
}
