// Package view implements per-split View state and the split-layout
// Tree, an arena of nodes indexed by ID so traversal is always from a
// known root and node references never dangle across splits/removals.
package view

import "github.com/rivedit/riv/internal/document"

// ID identifies a View within a Tree's arena.
type ID int

// Rect is a screen-space rectangle in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Offset is the visual anchor of a view's viewport: the top-left cell
// after softwrap.
type Offset struct {
	Row, Col int
}

// View is a leaf of the split Tree: one visible pane onto a Document.
type View struct {
	ID              ID
	Doc             document.ID
	Offset          Offset
	Area            Rect
	Jumps           *JumpList
	LastAccessedDoc document.ID
}

// New creates a View over doc with an empty jumplist.
func New(id ID, doc document.ID) *View {
	return &View{ID: id, Doc: doc, Jumps: NewJumpList(64)}
}

// ScreenToDoc maps a screen-relative (row, col) to a (docRow, docCol)
// pair relative to the view's current viewport anchor. The formatter
// resolves the document-row remainder into a char offset; this function
// only does the view-local coordinate translation assigned to
// View ("screen<->document coordinate mapping").
func (v *View) ScreenToDoc(screenRow, screenCol int) (docRow, docCol int) {
	return v.Offset.Row + (screenRow - v.Area.Y), v.Offset.Col + (screenCol - v.Area.X)
}

// DocToScreen is the inverse of ScreenToDoc.
func (v *View) DocToScreen(docRow, docCol int) (screenRow, screenCol int) {
	return v.Area.Y + (docRow - v.Offset.Row), v.Area.X + (docCol - v.Offset.Col)
}
