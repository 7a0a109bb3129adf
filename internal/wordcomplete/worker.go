// Package wordcomplete implements the word-completion worker: a
// blocking worker goroutine that indexes open documents by word, at
// both whole-document and per-line granularity, and answers prefix
// queries under a deadline.
package wordcomplete

import (
	"regexp"
	"sort"
	"time"

	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/document"
)

// wordPattern matches tokens of word characters.
var wordPattern = regexp.MustCompile(`\w+`)

// defaultLimit and defaultDeadline are the worker's default query
// bounds.
const (
	defaultLimit    = 20
	defaultDeadline = 300 * time.Millisecond
)

type docIndex struct {
	words map[string]struct{}         // whole-document
	lines map[int]map[string]struct{} // per-line
}

func newDocIndex() *docIndex {
	return &docIndex{words: map[string]struct{}{}, lines: map[int]map[string]struct{}{}}
}

// reindexRequest carries either a full-document reindex (IsFull true)
// or a targeted set of changed lines.
type reindexRequest struct {
	DocID  document.ID
	IsFull bool
	Full   string         // whole-document text, set on load/save
	Lines  map[int]string // changed lines, set on change
}

type queryRequest struct {
	DocID       document.ID
	Prefix      string
	CurrentLine int
	Limit       int
	Reply       chan []string
}

// Worker owns the word index and runs its maintenance/query loop on a
// dedicated goroutine. Reindex and query requests share a single
// channel so a reindex submitted before a query is always applied
// before that query runs.
type Worker struct {
	minWordLen int

	requests chan any
	done     chan struct{}

	docs map[document.ID]*docIndex
}

// NewFromConfig derives min_word_len = completion_trigger_len + 1 from
// the editor's [editor.completion] table.
func NewFromConfig(cfg config.CompletionConfig) *Worker {
	return NewWorker(cfg.TriggerLen + 1)
}

// NewWorker creates a worker; minWordLen should be
// completion_trigger_len + 1.
func NewWorker(minWordLen int) *Worker {
	return &Worker{
		minWordLen: minWordLen,
		requests:   make(chan any, 64),
		done:       make(chan struct{}),
		docs:       map[document.ID]*docIndex{},
	}
}

// Run drains reindex and query requests until Stop is called. Intended
// to run on its own goroutine for the worker's lifetime.
func (w *Worker) Run() {
	for {
		select {
		case req := <-w.requests:
			switch r := req.(type) {
			case reindexRequest:
				w.handleReindex(r)
			case queryRequest:
				r.Reply <- w.handleQuery(r)
			}
		case <-w.done:
			return
		}
	}
}

// Stop shuts the worker down; Run returns once the current request, if
// any, finishes.
func (w *Worker) Stop() { close(w.done) }

// ReindexDocument re-extracts words from the whole document, as
// happens on document save/load. Drops the request if the worker's
// queue is saturated.
func (w *Worker) ReindexDocument(id document.ID, text string) {
	select {
	case w.requests <- reindexRequest{DocID: id, IsFull: true, Full: text}:
	default:
	}
}

// ReindexLines re-extracts words only for the given changed lines, as
// happens on an in-place edit.
func (w *Worker) ReindexLines(id document.ID, lines map[int]string) {
	select {
	case w.requests <- reindexRequest{DocID: id, Lines: lines}:
	default:
	}
}

// Query asks for up to limit (0 means the default of 20) words in doc
// id starting with prefix, preferring matches from currentLine. It
// blocks for at most the default 300ms deadline; on timeout (or a
// saturated request queue) it returns nil.
func (w *Worker) Query(id document.ID, prefix string, currentLine, limit int) []string {
	if limit <= 0 {
		limit = defaultLimit
	}
	reply := make(chan []string, 1)
	req := queryRequest{DocID: id, Prefix: prefix, CurrentLine: currentLine, Limit: limit, Reply: reply}

	select {
	case w.requests <- req:
	default:
		return nil
	}

	select {
	case result := <-reply:
		return result
	case <-time.After(defaultDeadline):
		return nil
	}
}

func (w *Worker) handleReindex(req reindexRequest) {
	idx, ok := w.docs[req.DocID]
	if !ok {
		idx = newDocIndex()
		w.docs[req.DocID] = idx
	}

	if req.IsFull {
		idx.words = map[string]struct{}{}
		idx.lines = map[int]map[string]struct{}{}
		for i, line := range splitLines(req.Full) {
			w.indexLine(idx, i, line)
		}
		return
	}

	for lineNum, text := range req.Lines {
		delete(idx.lines, lineNum)
		w.indexLine(idx, lineNum, text)
	}
	idx.words = map[string]struct{}{}
	for _, set := range idx.lines {
		for word := range set {
			idx.words[word] = struct{}{}
		}
	}
}

func (w *Worker) indexLine(idx *docIndex, lineNum int, text string) {
	words := wordPattern.FindAllString(text, -1)
	lineSet := map[string]struct{}{}
	for _, word := range words {
		if len(word) < w.minWordLen {
			continue
		}
		lineSet[word] = struct{}{}
		idx.words[word] = struct{}{}
	}
	if len(lineSet) > 0 {
		idx.lines[lineNum] = lineSet
	}
}

func (w *Worker) handleQuery(req queryRequest) []string {
	idx, ok := w.docs[req.DocID]
	if !ok {
		return nil
	}

	var lineMatches, docMatches []string
	if lineSet, ok := idx.lines[req.CurrentLine]; ok {
		for word := range lineSet {
			if hasPrefix(word, req.Prefix) {
				lineMatches = append(lineMatches, word)
			}
		}
	}
	for word := range idx.words {
		if hasPrefix(word, req.Prefix) {
			docMatches = append(docMatches, word)
		}
	}

	sort.Strings(lineMatches)
	sort.Strings(docMatches)

	seen := map[string]struct{}{}
	var out []string
	for _, word := range lineMatches {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
		if len(out) >= req.Limit {
			return out
		}
	}
	for _, word := range docMatches {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
		if len(out) >= req.Limit {
			return out
		}
	}
	return out
}

func hasPrefix(word, prefix string) bool {
	if len(prefix) > len(word) {
		return false
	}
	return word[:len(prefix)] == prefix
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}
