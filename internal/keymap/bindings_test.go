package keymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBindingsCompileAndDispatch(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	w := r.Walker(ModeNormal)
	res := w.Feed("i")
	require.Equal(t, "enter_insert_mode", res.Command)

	w = r.Walker(ModeNormal)
	w.Feed("g")
	res = w.Feed("g")
	require.Equal(t, "goto_file_start", res.Command)
}

func TestWindowPrefixIsSticky(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	w := r.Walker(ModeNormal)
	res := w.Feed("ctrl+w")
	require.Equal(t, "window", res.StuckAt)

	res = w.Feed("h")
	require.Equal(t, "focus_left", res.Command)
}

func TestOpenLineBelowIsSequence(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	w := r.Walker(ModeNormal)
	res := w.Feed("o")
	require.Equal(t, []string{"open_line_below", "enter_insert_mode"}, res.Sequence)
}
