// The completion coordinator's provider set: the focused document's
// language server, riv's own word index, and a filesystem path
// completer, each adapted to handlers.Source so the coordinator treats
// them uniformly.
package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/handlers"
	"github.com/rivedit/riv/internal/wordcomplete"
)

// lspSource routes completion requests to whichever language server is
// attached to the document's language, spawning it on first use.
type lspSource struct {
	m *Model
}

func (s *lspSource) Name() string { return "lsp" }

func (s *lspSource) Complete(doc *document.Document, cursor int) ([]handlers.Item, bool) {
	p := s.m.lspReg.provider(doc.Language)
	if p == nil {
		return nil, false
	}
	return p.Complete(doc, cursor)
}

// pathSource completes filesystem paths from the token around the
// cursor: anything containing a path separator is resolved against the
// document's directory and its directory listing filtered by the
// basename prefix.
type pathSource struct{}

func (pathSource) Name() string { return "path" }

func (pathSource) Complete(doc *document.Document, cursor int) ([]handlers.Item, bool) {
	prefix, ok := pathPrefixBefore(doc, cursor)
	if !ok || !strings.ContainsRune(prefix, os.PathSeparator) {
		return nil, false
	}
	base := filepath.Dir(doc.Path)
	if base == "" {
		base = "."
	}
	dir, stem := filepath.Split(prefix)
	lookup := dir
	if !filepath.IsAbs(lookup) {
		lookup = filepath.Join(base, dir)
	}
	entries, err := os.ReadDir(lookup)
	if err != nil {
		return nil, false
	}
	var items []handlers.Item
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, stem) {
			continue
		}
		if e.IsDir() {
			name += string(os.PathSeparator)
		}
		items = append(items, handlers.Item{Provider: "path", Priority: len(items), Label: name, InsertText: name[len(stem):]})
	}
	return items, false
}

// pathPrefixBefore scans left from cursor over path-looking runes.
func pathPrefixBefore(doc *document.Document, cursor int) (string, bool) {
	line := doc.Text().CharToLine(cursor)
	lineStart := doc.Text().LineToChar(line)
	if cursor <= lineStart {
		return "", false
	}
	text := doc.Text().Slice(lineStart, cursor).String()
	start := len(text)
	for start > 0 {
		r := rune(text[start-1])
		if r == ' ' || r == '\t' || r == '"' || r == '\'' || r == '(' {
			break
		}
		start--
	}
	if start == len(text) {
		return "", false
	}
	return text[start:], true
}

// wordSource is the handlers.Source backed by a wordcomplete.Worker.
type wordSource struct {
	worker *wordcomplete.Worker
}

func newWordSource(w *wordcomplete.Worker) *wordSource { return &wordSource{worker: w} }

func (s *wordSource) Name() string { return "word" }

// Complete extracts the word-prefix immediately left of cursor and asks
// the worker to rank whole-document + current-line matches; the worker
// does the ranking, this just finds the prefix boundary, since Document
// doesn't track it.
func (s *wordSource) Complete(doc *document.Document, cursor int) ([]handlers.Item, bool) {
	prefix, ok := wordPrefixBefore(doc, cursor)
	if !ok {
		return nil, false
	}
	line := doc.Text().CharToLine(cursor)
	matches := s.worker.Query(doc.ID, prefix, line, 0)
	items := make([]handlers.Item, len(matches))
	for i, m := range matches {
		items[i] = handlers.Item{Provider: "word", Priority: i, Label: m, InsertText: m}
	}
	return items, false
}

// wordPrefixBefore scans left from cursor while runes are word
// characters, matching wordcomplete's own \w+ token definition.
func wordPrefixBefore(doc *document.Document, cursor int) (string, bool) {
	line := doc.Text().CharToLine(cursor)
	lineStart := doc.Text().LineToChar(line)
	if cursor <= lineStart {
		return "", false
	}
	text := doc.Text().Slice(lineStart, cursor).String()
	end := len(text)
	start := end
	for start > 0 {
		r := rune(text[start-1])
		if !isWordByte(r) {
			break
		}
		start--
	}
	if start == end {
		return "", false
	}
	return text[start:end], true
}

func isWordByte(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80
}

// reindexOnChange keeps the word worker's whole-document index current;
// riv reindexes the full document on every change rather than
// diffing affected lines; the worker still keeps per-line word sets so
// line-scoped matches rank first.
func reindexOnChange(w *wordcomplete.Worker, doc *document.Document) {
	w.ReindexDocument(doc.ID, doc.Text().String())
}
