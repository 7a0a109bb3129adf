package editor

import (
	"testing"

	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/view"
	"github.com/stretchr/testify/require"
)

func TestNewEditorHasOneScratchDocument(t *testing.T) {
	e := New(view.Rect{W: 80, H: 24})
	require.Len(t, e.Documents, 1)
	require.NotNil(t, e.FocusedDocument())
}

func TestFeedDispatchesThroughKeymap(t *testing.T) {
	e := New(view.Rect{W: 80, H: 24})
	res := e.Feed("i")
	require.Equal(t, "enter_insert_mode", res.Command)
}

func TestSetModeResetsWalker(t *testing.T) {
	e := New(view.Rect{W: 80, H: 24})
	e.Feed("g") // descend into a multi-key prefix
	e.SetMode(keymap.ModeInsert)
	res := e.Feed("esc")
	require.Equal(t, "enter_normal_mode", res.Command)
}

func TestDigraphLookup(t *testing.T) {
	e := New(view.Rect{W: 80, H: 24})
	r, ok := e.Digraph('a', ':')
	require.True(t, ok)
	require.Equal(t, 'ä', r)

	_, ok = e.Digraph('z', 'z')
	require.False(t, ok)
}
