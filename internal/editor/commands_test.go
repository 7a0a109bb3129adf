package editor

import (
	"testing"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
	"github.com/rivedit/riv/internal/view"
	"github.com/stretchr/testify/require"
)

// newTestEditor builds an Editor whose focused document is seeded with
// text by swapping in a freshly opened document, avoiding a throwaway
// transaction just to set up fixture text.
func newTestEditor(t *testing.T, text string) (*Editor, *document.Document) {
	t.Helper()
	e := New(view.Rect{W: 80, H: 24})
	old := e.FocusedDocument()
	doc := document.Open("", text)
	delete(e.Documents, old.ID)
	e.Documents[doc.ID] = doc
	v := e.Tree.Focus()
	v.Doc = doc.ID
	return e, doc
}

func setCursor(e *Editor, doc *document.Document, pos int) {
	v := e.Tree.Focus()
	doc.SetSelection(document.ViewID(v.ID), selection.Single(rope.Range{Anchor: pos, Head: pos}))
}

func setRange(e *Editor, doc *document.Document, from, to int) {
	v := e.Tree.Focus()
	doc.SetSelection(document.ViewID(v.ID), selection.Single(rope.Range{Anchor: from, Head: to}))
}

func TestRun_MoveCharRight(t *testing.T) {
	e, doc := newTestEditor(t, "abc")
	setCursor(e, doc, 0)

	e.Run("move_char_right")

	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	require.Equal(t, 1, sel.Primary().Head)
}

func TestRun_MoveNextWordStart(t *testing.T) {
	e, doc := newTestEditor(t, "foo bar")
	setCursor(e, doc, 0)

	e.Run("move_next_word_start")

	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	require.Equal(t, 4, sel.Primary().Head)
}

func TestRun_DeleteSelectionWritesDefaultRegister(t *testing.T) {
	e, doc := newTestEditor(t, "hello")
	setRange(e, doc, 0, 5)

	e.Run("delete_selection")

	require.Equal(t, 0, doc.Text().LenChars())
	values := e.Registers.Read(defaultRegister, e.RegisterContext())
	require.Equal(t, []string{"hello"}, values)
}

func TestRun_YankThenPasteAfter(t *testing.T) {
	e, doc := newTestEditor(t, "hello world")
	setRange(e, doc, 0, 5)

	e.Run("yank")
	setCursor(e, doc, 6)
	e.Run("paste_after")

	require.Contains(t, doc.Text().String(), "hello")
}

func TestRun_UndoRedoRoundTrips(t *testing.T) {
	e, doc := newTestEditor(t, "hello")
	setRange(e, doc, 0, 5)

	e.Run("delete_selection")
	require.Equal(t, 0, doc.Text().LenChars())

	e.Run("undo")
	require.Equal(t, "hello", doc.Text().String())

	e.Run("redo")
	require.Equal(t, 0, doc.Text().LenChars())
}

func TestRun_CrossPackageCommandReturnsEffectRequest(t *testing.T) {
	e, _ := newTestEditor(t, "")
	eff := e.Run("goto_definition")
	require.Equal(t, EffectRequest, eff.Kind)
	require.Equal(t, "goto_definition", eff.Request)
}

func TestRunSequence_OpenLineBelowEntersInsertMode(t *testing.T) {
	e, doc := newTestEditor(t, "one")
	setCursor(e, doc, 0)

	e.RunSequence([]string{"open_line_below", "enter_insert_mode"})

	require.Equal(t, "one\n", doc.Text().String())
	require.Equal(t, "insert", string(e.Mode))
}

func TestCmdFocusCycle_MovesToOtherView(t *testing.T) {
	e, _ := newTestEditor(t, "")
	e.Run("vsplit")
	first := e.Tree.FocusID()

	e.Run("focus_left")
	second := e.Tree.FocusID()
	require.NotEqual(t, first, second)
}

func TestRun_IncrementDateUnderCursor(t *testing.T) {
	e, doc := newTestEditor(t, "due 2020-02-29 tomorrow")
	setCursor(e, doc, 4) // on the year field

	e.Run("increment")

	require.Equal(t, "due 2021-03-01 tomorrow", doc.Text().String())
}

func TestRun_IncrementNumberUnderCursor(t *testing.T) {
	e, doc := newTestEditor(t, "port 8079")
	setCursor(e, doc, 7)

	e.Run("increment")
	require.Equal(t, "port 8080", doc.Text().String())

	e.Run("decrement")
	require.Equal(t, "port 8079", doc.Text().String())
}
