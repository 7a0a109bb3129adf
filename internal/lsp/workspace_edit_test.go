package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rivedit/riv/internal/document"
	"github.com/stretchr/testify/require"
)

func TestApplyWorkspaceEditReplacesRange(t *testing.T) {
	doc := document.Open("f.go", "hello world")
	edit := VersionedTextEdits{
		URI:     "file:///f.go",
		Version: int(doc.Version()),
		Edits: []TextEdit{
			{Range: Range{Start: Position{0, 6}, End: Position{0, 11}}, NewText: "there"},
		},
	}
	require.NoError(t, ApplyWorkspaceEdit(doc, edit, OffsetUTF16))
	require.Equal(t, "hello there", doc.Text().String())
}

func TestApplyWorkspaceEditStaleVersionFails(t *testing.T) {
	doc := document.Open("f.go", "hello world")
	edit := VersionedTextEdits{
		URI:     "file:///f.go",
		Version: int(doc.Version()) + 1,
		Edits:   []TextEdit{{Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, NewText: "hi"}},
	}
	err := ApplyWorkspaceEdit(doc, edit, OffsetUTF16)
	require.Error(t, err)
	var dce *DocumentChangedError
	require.ErrorAs(t, err, &dce)
}

func TestApplyFullWorkspaceEditOrdersAndPartiallyApplies(t *testing.T) {
	a := document.Open("/tmp/a.go", "hello world")
	b := document.Open("/tmp/b.go", "goodbye")
	docs := map[string]*document.Document{"file:///tmp/a.go": a, "file:///tmp/b.go": b}
	resolve := func(uri string) *document.Document { return docs[uri] }

	edit := WorkspaceEdit{DocumentChanges: []DocumentChange{
		{
			TextDocument: &VersionedTextDocumentIdentifier{URI: "file:///tmp/a.go", Version: int(a.Version()) + 1},
			Edits:        []TextEdit{{Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, NewText: "HI"}},
		},
		{
			TextDocument: &VersionedTextDocumentIdentifier{URI: "file:///tmp/b.go"},
			Edits:        []TextEdit{{Range: Range{Start: Position{0, 0}, End: Position{0, 7}}, NewText: "hi"}},
		},
	}}

	err := ApplyFullWorkspaceEdit(edit, OffsetUTF16, resolve, nil)

	// the stale entry fails with its index; its neighbour still applied
	var weErr *WorkspaceEditError
	require.ErrorAs(t, err, &weErr)
	require.Equal(t, 0, weErr.FailedChangeIdx)
	var dce *DocumentChangedError
	require.ErrorAs(t, weErr.Err, &dce)
	require.Equal(t, "hello world", a.Text().String())
	require.Equal(t, "hi", b.Text().String())
}

func TestApplyFullWorkspaceEditResourceOps(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.go")
	newPath := filepath.Join(dir, "new.go")
	require.NoError(t, os.WriteFile(oldPath, []byte("x"), 0o644))

	var events []FileEvent
	edit := WorkspaceEdit{DocumentChanges: []DocumentChange{
		{Kind: "rename", OldURI: PathToURI(oldPath), NewURI: PathToURI(newPath)},
		{Kind: "create", URI: PathToURI(filepath.Join(dir, "made.go"))},
		{Kind: "delete", URI: PathToURI(newPath)},
	}}
	err := ApplyFullWorkspaceEdit(edit, OffsetUTF16, func(string) *document.Document { return nil }, func(ev FileEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	require.Equal(t, []string{"rename", "create", "delete"}, []string{events[0].Op, events[1].Op, events[2].Op})
	_, statErr := os.Stat(newPath)
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "made.go"))
	require.NoError(t, statErr)
}

func TestApplyResourceOpHonorsExistsFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.go")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))

	// create over an existing file fails without a flag
	_, err := applyResourceOp(DocumentChange{Kind: "create", URI: PathToURI(path)})
	require.Error(t, err)

	// ignoreIfExists leaves the original contents alone
	_, err = applyResourceOp(DocumentChange{Kind: "create", URI: PathToURI(path), Options: &ResourceOpOptions{IgnoreIfExists: true}})
	require.NoError(t, err)
	data, _ := os.ReadFile(path)
	require.Equal(t, "keep", string(data))

	// overwrite truncates it
	_, err = applyResourceOp(DocumentChange{Kind: "create", URI: PathToURI(path), Options: &ResourceOpOptions{Overwrite: true}})
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	require.Empty(t, data)
}
