package document

import (
	"testing"

	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
	"github.com/stretchr/testify/require"
)

func TestApplyTransactionBumpsVersionAndRemapsSelection(t *testing.T) {
	d := Open("scratch", "hello world")
	d.SetSelection(0, selection.Single(rope.Range{Anchor: 6, Head: 11}))

	tx := rope.Change(d.Text().LenChars(), []rope.Edit{{From: 0, To: 5, Replace: "HI"}})
	d.ApplyTransaction(tx, "test")

	require.Equal(t, int64(1), d.Version())
	require.True(t, d.IsModified())
	sel := d.Selection(0)
	require.Equal(t, 11-5+2, sel.Primary().To())
}

func TestUndoReturnsInverse(t *testing.T) {
	d := Open("scratch", "hello")
	tx := rope.Change(d.Text().LenChars(), []rope.Edit{{From: 0, To: 0, Replace: "X"}})
	d.ApplyTransaction(tx, "insert")
	require.Equal(t, "Xhello", d.Text().String())

	inv, ok := d.history.Undo()
	require.True(t, ok)
	out, _ := inv.Apply(d.Text())
	require.Equal(t, "hello", out.String())
}

func TestSavepointRevive(t *testing.T) {
	d := Open("scratch", "hello world")
	d.SetSelection(0, selection.Single(rope.Range{Anchor: 6, Head: 6}))
	sp := d.Savepoint(0)
	tx := rope.Change(d.Text().LenChars(), []rope.Edit{{From: 0, To: 0, Replace: "XX"}})
	d.ApplyTransaction(tx, "insert")
	sel, ok := sp.Revive()
	require.True(t, ok)
	// the captured cursor rides the insert: 6 chars in, shifted by the
	// two inserted at the front
	require.Equal(t, 8, sel.Primary().From())
}
