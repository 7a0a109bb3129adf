package keymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleKeyCommand(t *testing.T) {
	tr := NewTrie()
	tr.Bind("i", "insert_mode")
	w := NewWalker(tr)

	res := w.Feed("i")
	require.True(t, res.Matched)
	require.Equal(t, "insert_mode", res.Command)
	require.True(t, w.AtRoot())
}

func TestMultiKeySequencePrefix(t *testing.T) {
	tr := NewTrie()
	tr.Bind("g g", "goto_file_start")
	w := NewWalker(tr)

	res := w.Feed("g")
	require.True(t, res.Descended)
	require.False(t, w.AtRoot())

	res = w.Feed("g")
	require.True(t, res.Matched)
	require.Equal(t, "goto_file_start", res.Command)
	require.True(t, w.AtRoot())
}

func TestUnmatchedKeyReturnsToRoot(t *testing.T) {
	tr := NewTrie()
	tr.Bind("g g", "goto_file_start")
	w := NewWalker(tr)

	w.Feed("g")
	res := w.Feed("x")
	require.True(t, res.Unmatched)
	require.True(t, w.AtRoot())
}

func TestStickyNodePersistsAcrossCommands(t *testing.T) {
	tr := NewTrie()
	tr.BindSticky("ctrl+w", "window")
	tr.Bind("ctrl+w h", "focus_left")
	tr.Bind("ctrl+w l", "focus_right")
	w := NewWalker(tr)

	res := w.Feed("ctrl+w")
	require.Equal(t, "window", res.StuckAt)

	res = w.Feed("h")
	require.Equal(t, "focus_left", res.Command)
	// the governing ctrl+w node is sticky, so the walker stays there
	// and the next key dispatches from the same prefix
	require.Equal(t, "window", res.StuckAt)
	require.False(t, w.AtRoot())

	res = w.Feed("l")
	require.Equal(t, "focus_right", res.Command)

	// a key the sticky node does not define returns to root without
	// executing
	res = w.Feed("z")
	require.True(t, res.Unmatched)
	require.True(t, w.AtRoot())
}

func TestSequenceLeaf(t *testing.T) {
	tr := NewTrie()
	tr.BindSequence("space w", []string{"write", "format"})
	w := NewWalker(tr)

	w.Feed("space")
	res := w.Feed("w")
	require.Equal(t, []string{"write", "format"}, res.Sequence)
}
