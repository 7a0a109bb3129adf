package lsp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/rope"
)

// TextEdit is one LSP text edit: replace Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// VersionedTextDocumentIdentifier names a document plus the version the
// server computed its edits against; a null/absent version decodes to 0
// and skips the staleness check.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// ResourceOpOptions carries the create/delete/rename behavior flags.
type ResourceOpOptions struct {
	Overwrite         bool `json:"overwrite"`
	IgnoreIfExists    bool `json:"ignoreIfExists"`
	IgnoreIfNotExists bool `json:"ignoreIfNotExists"`
	Recursive         bool `json:"recursive"`
}

// DocumentChange is one entry of a WorkspaceEdit's documentChanges
// list: either a text-document edit (TextDocument set) or a resource
// operation (Kind set to "create", "delete" or "rename").
type DocumentChange struct {
	TextDocument *VersionedTextDocumentIdentifier `json:"textDocument,omitempty"`
	Edits        []TextEdit                       `json:"edits,omitempty"`

	Kind    string             `json:"kind,omitempty"`
	URI     string             `json:"uri,omitempty"`
	OldURI  string             `json:"oldUri,omitempty"`
	NewURI  string             `json:"newUri,omitempty"`
	Options *ResourceOpOptions `json:"options,omitempty"`
}

// WorkspaceEdit is the wire shape of workspace/applyEdit's edit
// argument. Servers send either the ordered documentChanges list or
// the legacy per-URI changes map, never meaningfully both.
type WorkspaceEdit struct {
	DocumentChanges []DocumentChange      `json:"documentChanges,omitempty"`
	Changes         map[string][]TextEdit `json:"changes,omitempty"`
}

// FileEvent describes a resource operation the edit application
// performed, forwarded to the caller's file-event handler on success.
type FileEvent struct {
	Op      string // "create" | "delete" | "rename"
	Path    string
	OldPath string // set for renames
}

// WorkspaceEditError reports which documentChanges entry failed. Edits
// on other documents may still have applied; the failing index lets
// the caller surface exactly what was skipped.
type WorkspaceEditError struct {
	FailedChangeIdx int
	Err             error
}

func (e *WorkspaceEditError) Error() string {
	return fmt.Sprintf("lsp: workspace edit change %d failed: %v", e.FailedChangeIdx, e.Err)
}

func (e *WorkspaceEditError) Unwrap() error { return e.Err }

// VersionedTextEdits carries the document version the edits were
// computed against, so ApplyWorkspaceEdit can detect a stale edit.
type VersionedTextEdits struct {
	URI     string
	Version int
	Edits   []TextEdit
}

// ApplyWorkspaceEdit turns a list of LSP TextEdits into one
// Transaction and applies it to doc, after checking the edit's version
// against the document's live version. Edits within one TextEdit[] are
// expressed against the document state *before* any of them apply, so
// overlapping ranges are invalid; sorting them ascending lets them feed
// straight into one rope.Change whose offsets don't shift under each
// other.
func ApplyWorkspaceEdit(doc *document.Document, edit VersionedTextEdits, enc OffsetEncoding) error {
	if edit.Version != 0 && int(doc.Version()) != edit.Version {
		return &DocumentChangedError{
			URI:             edit.URI,
			ExpectedVersion: edit.Version,
			ActualVersion:   int(doc.Version()),
		}
	}

	text := doc.Text()
	sorted := make([]TextEdit, len(edit.Edits))
	copy(sorted, edit.Edits)
	sort.Slice(sorted, func(i, j int) bool {
		return PositionToChar(text, sorted[i].Range.Start, enc) < PositionToChar(text, sorted[j].Range.Start, enc)
	})

	edits := make([]rope.Edit, len(sorted))
	pos := 0
	for i, e := range sorted {
		from := PositionToChar(text, e.Range.Start, enc)
		to := PositionToChar(text, e.Range.End, enc)
		if from < pos {
			return &DocumentChangedError{URI: edit.URI, ExpectedVersion: edit.Version, ActualVersion: int(doc.Version())}
		}
		edits[i] = rope.Edit{From: from, To: to, Replace: e.NewText}
		pos = to
	}

	tx := rope.Change(text.LenChars(), edits)
	doc.ApplyTransaction(tx, "lsp.workspace_edit")
	return nil
}

// ApplyFullWorkspaceEdit applies a WorkspaceEdit's document changes in
// list order. resolve maps a URI to the live document (nil means the
// document isn't open and that entry fails); onFileEvent, when
// non-nil, is told about each resource operation that succeeded. A
// version mismatch (or any other failure) aborts only that entry —
// neighbours still apply — and the first failure is reported with its
// documentChanges index.
func ApplyFullWorkspaceEdit(edit WorkspaceEdit, enc OffsetEncoding, resolve func(uri string) *document.Document, onFileEvent func(FileEvent)) error {
	var firstErr *WorkspaceEditError
	fail := func(idx int, err error) {
		if firstErr == nil {
			firstErr = &WorkspaceEditError{FailedChangeIdx: idx, Err: err}
		}
	}

	for i, change := range edit.DocumentChanges {
		switch {
		case change.TextDocument != nil:
			doc := resolve(change.TextDocument.URI)
			if doc == nil {
				fail(i, fmt.Errorf("document %s is not open", change.TextDocument.URI))
				continue
			}
			err := ApplyWorkspaceEdit(doc, VersionedTextEdits{
				URI:     change.TextDocument.URI,
				Version: change.TextDocument.Version,
				Edits:   change.Edits,
			}, enc)
			if err != nil {
				fail(i, err)
			}
		case change.Kind != "":
			ev, err := applyResourceOp(change)
			if err != nil {
				fail(i, err)
				continue
			}
			if onFileEvent != nil {
				onFileEvent(ev)
			}
		default:
			fail(i, fmt.Errorf("documentChanges entry is neither a text edit nor a resource operation"))
		}
	}

	// legacy per-URI map, applied after documentChanges; no version
	// gating is possible in this shape, so only missing documents fail.
	// Indices continue past the documentChanges list in map-sorted
	// order so a failure is still addressable.
	uris := make([]string, 0, len(edit.Changes))
	for uri := range edit.Changes {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	for j, uri := range uris {
		doc := resolve(uri)
		if doc == nil {
			fail(len(edit.DocumentChanges)+j, fmt.Errorf("document %s is not open", uri))
			continue
		}
		if err := ApplyWorkspaceEdit(doc, VersionedTextEdits{URI: uri, Edits: edit.Changes[uri]}, enc); err != nil {
			fail(len(edit.DocumentChanges)+j, err)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	return nil
}

// applyResourceOp performs one create/delete/rename resource operation,
// honoring the overwrite/ignoreIfExists/ignoreIfNotExists flags.
func applyResourceOp(change DocumentChange) (FileEvent, error) {
	opts := ResourceOpOptions{}
	if change.Options != nil {
		opts = *change.Options
	}

	switch change.Kind {
	case "create":
		path := URIToPath(change.URI)
		if _, err := os.Stat(path); err == nil {
			if opts.IgnoreIfExists {
				return FileEvent{Op: "create", Path: path}, nil
			}
			if !opts.Overwrite {
				return FileEvent{}, fmt.Errorf("create %s: file exists", path)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return FileEvent{}, err
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return FileEvent{}, err
		}
		return FileEvent{Op: "create", Path: path}, nil

	case "delete":
		path := URIToPath(change.URI)
		if _, err := os.Stat(path); err != nil {
			if opts.IgnoreIfNotExists {
				return FileEvent{Op: "delete", Path: path}, nil
			}
			return FileEvent{}, err
		}
		var err error
		if opts.Recursive {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return FileEvent{}, err
		}
		return FileEvent{Op: "delete", Path: path}, nil

	case "rename":
		oldPath, newPath := URIToPath(change.OldURI), URIToPath(change.NewURI)
		if _, err := os.Stat(newPath); err == nil {
			if opts.IgnoreIfExists {
				return FileEvent{Op: "rename", Path: newPath, OldPath: oldPath}, nil
			}
			if !opts.Overwrite {
				return FileEvent{}, fmt.Errorf("rename %s: target %s exists", oldPath, newPath)
			}
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			return FileEvent{}, err
		}
		return FileEvent{Op: "rename", Path: newPath, OldPath: oldPath}, nil
	}
	return FileEvent{}, fmt.Errorf("unknown resource operation %q", change.Kind)
}

// URIToPath strips the file:// scheme off a document URI. Non-file
// URIs pass through unchanged; riv never edits remote resources.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// PathToURI is URIToPath's inverse for outbound messages.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
