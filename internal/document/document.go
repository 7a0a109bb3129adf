// Package document implements per-buffer editor state: text, per-view
// selections, diagnostics, undo history, savepoints and
// inlay-hint/inline-completion annotations.
package document

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
)

// ID is a process-unique, monotonically increasing document identifier.
type ID uint64

var nextID uint64

func newID() ID {
	return ID(atomic.AddUint64(&nextID, 1))
}

// ViewID identifies a View for per-view selection/inlay-hint maps.
type ViewID uint64

// LanguageID names a language binding (e.g. "go", "rust").
type LanguageID string

// Document is a single open buffer.
type Document struct {
	ID   ID
	Path string // empty for scratch buffers
	Language LanguageID

	text    *rope.Rope
	version int64

	selections map[ViewID]selection.Selection

	diagnostics []Diagnostic

	history *History

	savepoints map[*Savepoint]struct{}

	inlayHints map[ViewID]*InlayHintSet

	inlineCompletion *InlineCompletion

	modified  bool
	readonly  bool
	savedHash uint64 // xxhash of the text as last loaded/saved
}

// New creates an empty scratch document.
func New() *Document {
	return &Document{
		ID:         newID(),
		text:       rope.New(""),
		selections: map[ViewID]selection.Selection{},
		history:    NewHistory(),
		savepoints: map[*Savepoint]struct{}{},
		inlayHints: map[ViewID]*InlayHintSet{},
	}
}

// Open creates a document from file contents. Line-ending normalization
// happens here, at load time.
func Open(path string, contents string) *Document {
	d := New()
	d.Path = path
	d.text = rope.New(NormalizeLineEndings(contents))
	d.savedHash = d.ContentHash()
	return d
}

// ContentHash returns the xxhash of the current text, used to compare
// buffer contents against on-disk state without holding both strings.
func (d *Document) ContentHash() uint64 {
	h := xxhash.New()
	for chunk := range d.text.Chunks() {
		h.WriteString(chunk)
	}
	return h.Sum64()
}

// Text returns the current rope snapshot.
func (d *Document) Text() *rope.Rope { return d.text }

// Version returns the monotonic version counter, bumped on every
// applied transaction.
func (d *Document) Version() int64 { return d.version }

// IsModified reports whether the document has unsaved changes.
func (d *Document) IsModified() bool { return d.modified }

// Readonly reports whether :w requires ! to override.
func (d *Document) Readonly() bool { return d.readonly }
func (d *Document) SetReadonly(ro bool) { d.readonly = ro }

// Selection returns the selection for a view, defaulting to a single
// cursor at 0 if the view has none yet.
func (d *Document) Selection(v ViewID) selection.Selection {
	if s, ok := d.selections[v]; ok {
		return s
	}
	return selection.Single(rope.Range{})
}

// SetSelection stores a (already-clamped) selection for a view.
func (d *Document) SetSelection(v ViewID, sel selection.Selection) {
	d.selections[v] = sel.Clamp(d.text.LenChars())
}

// RemoveView drops per-view state when a view closes.
func (d *Document) RemoveView(v ViewID) {
	delete(d.selections, v)
	delete(d.inlayHints, v)
}

// ApplyTransaction applies tx, bumps the version, records the inverse in
// history, and remaps every selection, diagnostic and savepoint through
// the resulting position map. This is the single mutation entrypoint:
// every document-changing command in the editor goes through here so
// the invariant that any position stored anywhere is valid at the
// current version holds by construction.
func (d *Document) ApplyTransaction(tx *rope.Transaction, origin string) {
	if tx.Len() != d.text.LenChars() {
		panic("document: transaction pre-image length mismatch")
	}
	inv := tx.Invert(d.text)
	newText, pm := tx.Apply(d.text)

	for v, sel := range d.selections {
		d.selections[v] = sel.Map(pm, rope.AssocAfter)
	}
	d.diagnostics = mapDiagnostics(d.diagnostics, pm)
	for sp := range d.savepoints {
		sp.remap(pm)
	}
	d.text = newText
	d.version++
	d.modified = true
	d.history.Push(tx, inv, origin)
	d.inlineCompletion = nil // any change invalidates ghost text
}

// MarkSaved clears the modified flag after a successful write.
func (d *Document) MarkSaved() {
	d.modified = false
	d.savedHash = d.ContentHash()
}

// Reload replaces the document's entire contents with an external
// change (the file watcher noticing the backing file changed on disk
// while no local edits are pending) and clears the modified flag, since
// the new text now matches disk.
func (d *Document) Reload(contents string) {
	normalized := NormalizeLineEndings(contents)
	if xxhash.Sum64String(normalized) == d.savedHash && !d.modified {
		return // watcher echo of our own save, nothing changed
	}
	tx := rope.Change(d.text.LenChars(), []rope.Edit{{From: 0, To: d.text.LenChars(), Replace: normalized}})
	d.ApplyTransaction(tx, "reload")
	d.modified = false
	d.savedHash = d.ContentHash()
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool { return d.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool { return d.history.CanRedo() }

// Undo reverts the most recent transaction, if any. Unlike
// ApplyTransaction it does not push a new history entry; it only moves
// the history cursor, matching standard undo-stack semantics.
func (d *Document) Undo() bool {
	tx, ok := d.history.Undo()
	if !ok {
		return false
	}
	d.applyWithoutHistory(tx)
	return true
}

// Redo re-applies the transaction most recently undone, if any.
func (d *Document) Redo() bool {
	tx, ok := d.history.Redo()
	if !ok {
		return false
	}
	d.applyWithoutHistory(tx)
	return true
}

// applyWithoutHistory mirrors ApplyTransaction's text/selection/
// diagnostic/savepoint remapping but leaves the history stack alone, for
// Undo/Redo which already moved the cursor themselves.
func (d *Document) applyWithoutHistory(tx *rope.Transaction) {
	newText, pm := tx.Apply(d.text)
	for v, sel := range d.selections {
		d.selections[v] = sel.Map(pm, rope.AssocAfter)
	}
	d.diagnostics = mapDiagnostics(d.diagnostics, pm)
	for sp := range d.savepoints {
		sp.remap(pm)
	}
	d.text = newText
	d.version++
	d.modified = true
	d.inlineCompletion = nil
}

// NormalizeLineEndings converts every \r\n and every lone \r to \n.
// Documents hold only \n, so a file's original line endings are not
// restored when it is saved.
func NormalizeLineEndings(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' {
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
