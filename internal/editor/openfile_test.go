package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/view"
	"github.com/stretchr/testify/require"
)

// Opening a file with a CLI position like Cargo.toml:10 places the
// cursor at row 10, col 1 (1-indexed input, 0-indexed internal, so
// {row:9,col:0}).
func TestOpenFileAtPositionPlacesCursor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte("line0\nline1\nline2\nline3\nline4\nline5\nline6\nline7\nline8\nline9\nline10\n"), 0o644))

	e := New(view.Rect{W: 80, H: 24})
	doc, err := e.OpenFileAtPosition(path, 9, 0, true, view.LayoutVertical, false)
	require.NoError(t, err)

	v := e.Tree.Focus()
	require.Equal(t, doc.ID, v.Doc)
	sel := doc.Selection(document.ViewID(v.ID))
	require.True(t, sel.Primary().IsEmpty())
	require.Equal(t, doc.Text().LineToChar(9), sel.Primary().From())
}

// The bare "Cargo.toml:" form (Row == -1) places the cursor on the
// last non-empty line.
func TestOpenFileAtPositionEOFMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o644))

	e := New(view.Rect{W: 80, H: 24})
	doc, err := e.OpenFileAtPosition(path, -1, 0, true, view.LayoutVertical, false)
	require.NoError(t, err)

	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	require.Equal(t, doc.Text().LineToChar(2), sel.Primary().From())
}

// The first opened file reuses the initial scratch view rather than
// leaving an empty buffer open in a split.
func TestOpenFileAtPositionReusesScratchView(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n"), 0o644))

	e := New(view.Rect{W: 80, H: 24})
	before := len(e.Documents)
	require.Equal(t, 1, before)

	_, err := e.OpenFileAtPosition(path, 0, 0, false, view.LayoutVertical, false)
	require.NoError(t, err)
	require.Len(t, e.Documents, 1)
	require.Len(t, e.Tree.Views(), 1)
}

// A second file with --vsplit gets its own split instead of replacing
// the first file's view.
func TestOpenFileAtPositionSplitsForSubsequentFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.go")
	p2 := filepath.Join(dir, "b.go")
	require.NoError(t, os.WriteFile(p1, []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte("package b\n"), 0o644))

	e := New(view.Rect{W: 80, H: 24})
	_, err := e.OpenFileAtPosition(p1, 0, 0, false, view.LayoutVertical, true)
	require.NoError(t, err)
	_, err = e.OpenFileAtPosition(p2, 0, 0, false, view.LayoutVertical, true)
	require.NoError(t, err)

	require.Len(t, e.Tree.Views(), 2)
}
