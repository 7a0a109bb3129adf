// Package editor ties documents, views, registers and the keymap into
// the single owning object the runtime drives.
package editor

import (
	"os"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/registers"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
	"github.com/rivedit/riv/internal/view"
)

// Editor owns every document, the view tree, the register store and
// the compiled keymap, plus the editor-wide modal state.
type Editor struct {
	Documents map[document.ID]*document.Document
	Tree      *view.Tree
	Registers *registers.Store
	Keymap    *keymap.Registry

	Mode   keymap.Mode
	walker *keymap.Walker

	Digraphs map[digraphKey]rune

	// CommandLine is the text being composed in ModeCommand; the caller
	// appends printable keys here directly since the keymap trie has no
	// per-character leaves.
	CommandLine string
}

// CommandLineInput appends a printable rune to the in-progress
// command-line buffer.
func (e *Editor) CommandLineInput(r rune) {
	e.CommandLine += string(r)
}

// CommandLineBackspace removes the last rune of the in-progress
// command-line buffer, if any.
func (e *Editor) CommandLineBackspace() {
	if e.CommandLine == "" {
		return
	}
	rs := []rune(e.CommandLine)
	e.CommandLine = string(rs[:len(rs)-1])
}

// New creates an editor with one empty scratch document filling area.
func New(area view.Rect) *Editor {
	doc := document.New()
	v := view.New(0, doc.ID)

	e := &Editor{
		Documents: map[document.ID]*document.Document{doc.ID: doc},
		Tree:      view.NewTree(v, area),
		Registers: registers.NewStore(),
		Keymap:    keymap.NewRegistry(),
		Mode:      keymap.ModeNormal,
		Digraphs:  DefaultDigraphs(),
	}
	keymap.RegisterDefaults(e.Keymap)
	e.walker = e.Keymap.Walker(e.Mode)
	return e
}

// OpenFile reads a file into a new document and registers it with the
// editor; it does not create or focus a view.
func (e *Editor) OpenFile(path string) (*document.Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := document.Open(path, string(contents))
	e.Documents[doc.ID] = doc
	return doc, nil
}

// scratchViewID reports the focused view's ID if its document is the
// untouched initial scratch buffer New() creates, so a CLI file-open
// can reuse that view instead of leaving an empty buffer behind.
func (e *Editor) scratchViewID() (view.ID, bool) {
	v := e.Tree.Focus()
	if v == nil {
		return 0, false
	}
	d, ok := e.Documents[v.Doc]
	if !ok || d.Path != "" || d.IsModified() || d.Text().LenChars() != 0 {
		return 0, false
	}
	return v.ID, true
}

// OpenFileAtPosition opens path the way the CLI's positional file
// arguments do: the first file reuses the still-empty
// scratch view created by New(); later files are placed in a new split
// of the given layout when wantSplit is set (--vsplit/--hsplit),
// otherwise they are opened as background buffers with no view of
// their own. row/col are 0-indexed document coordinates; hasPos
// selects between a literal position and "last non-empty line"
// (row < 0, a bare trailing "Cargo.toml:" with no explicit line).
func (e *Editor) OpenFileAtPosition(path string, row, col int, hasPos bool, split view.Layout, wantSplit bool) (*document.Document, error) {
	d, err := e.OpenFile(path)
	if err != nil {
		return nil, err
	}

	var vid view.ID
	hasView := false
	if id, reuse := e.scratchViewID(); reuse {
		scratch := e.Documents[e.Tree.Focus().Doc]
		e.Tree.Focus().Doc = d.ID
		delete(e.Documents, scratch.ID)
		vid, hasView = id, true
	} else if wantSplit {
		nv := view.New(0, d.ID)
		e.Tree.Split(nv, split)
		vid, hasView = e.Tree.FocusID(), true
	}
	if hasView {
		e.Tree.SetFocus(vid)
	}

	if hasPos && hasView {
		line := row
		if line < 0 {
			line = lastNonEmptyLine(d)
		}
		charIdx := d.Text().LineToChar(clampLine(d, line)) + col
		if charIdx > d.Text().LenChars() {
			charIdx = d.Text().LenChars()
		}
		d.SetSelection(document.ViewID(vid), selection.Single(rope.Range{Anchor: charIdx, Head: charIdx}))
	}
	return d, nil
}

func lastNonEmptyLine(d *document.Document) int {
	n := d.Text().LenLines()
	for line := n - 1; line >= 0; line-- {
		start := d.Text().LineToChar(line)
		end := d.Text().LenChars()
		if line+1 < n {
			end = d.Text().LineToChar(line + 1)
		}
		if end > start {
			return line
		}
	}
	return 0
}

func clampLine(d *document.Document, line int) int {
	n := d.Text().LenLines()
	if line < 0 {
		return 0
	}
	if line >= n {
		return n - 1
	}
	return line
}

// JumpTo shows path in the focused view, reusing an already-open
// document when one exists, and places the cursor at the 0-indexed
// row/col. The previous location is pushed onto the view's jumplist.
func (e *Editor) JumpTo(path string, row, col int) (*document.Document, error) {
	var d *document.Document
	for _, doc := range e.Documents {
		if doc.Path == path {
			d = doc
			break
		}
	}
	if d == nil {
		var err error
		d, err = e.OpenFile(path)
		if err != nil {
			return nil, err
		}
	}

	v := e.Tree.Focus()
	if prev, ok := e.Documents[v.Doc]; ok {
		v.Jumps.Push(view.Jump{Doc: prev.ID, Selection: prev.Selection(document.ViewID(v.ID))})
		v.LastAccessedDoc = prev.ID
	}
	v.Doc = d.ID

	charIdx := d.Text().LineToChar(clampLine(d, row)) + col
	if charIdx > d.Text().LenChars() {
		charIdx = d.Text().LenChars()
	}
	d.SetSelection(document.ViewID(v.ID), selection.Single(rope.Range{Anchor: charIdx, Head: charIdx}))
	return d, nil
}

// FocusedDocument returns the document backing the currently focused
// view.
func (e *Editor) FocusedDocument() *document.Document {
	v := e.Tree.Focus()
	if v == nil {
		return nil
	}
	return e.Documents[v.Doc]
}

// SetMode switches the active mode, resetting the trie walker to the
// new mode's root.
func (e *Editor) SetMode(m keymap.Mode) {
	e.Mode = m
	e.walker = e.Keymap.Walker(m)
}

// Feed routes one key event through the active mode's trie. The caller
// (runtime) is responsible for actually executing Command/Sequence via
// its command table; Feed only resolves what a keystroke means.
func (e *Editor) Feed(key string) keymap.Result {
	return e.walker.Feed(key)
}

// ResetWalker aborts a pending multi-key sequence (Esc from a non-leaf
// trie position).
func (e *Editor) ResetWalker() { e.walker.Reset() }

// RegisterContext snapshots the focused document's selection fragments
// and path, used to serve the read-only '#', '.' and '%' registers
// before command dispatch.
func (e *Editor) RegisterContext() registers.Context {
	doc := e.FocusedDocument()
	if doc == nil {
		return registers.Context{}
	}
	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	ranges := sel.Ranges()
	text := make([]string, len(ranges))
	for i, r := range ranges {
		text[i] = doc.Text().Slice(r.From(), r.To()).String()
	}
	path := doc.Path
	return registers.Context{
		SelectionCount: sel.Len(),
		SelectionText:  text,
		DocumentPath:   path,
	}
}

// ApplyTransaction applies tx to doc through the document's single
// mutation entrypoint; kept here so every editor command (rather than
// document internals) names the origin for undo-history bookkeeping.
func (e *Editor) ApplyTransaction(doc *document.Document, tx *rope.Transaction, origin string) {
	doc.ApplyTransaction(tx, origin)
}
