// Package keymap implements the mode-indexed keymap trie: a tree whose
// edges are KeyEvents and whose leaves are either a single command or
// a sequence of commands, with sticky interior nodes that keep the
// trie current until Esc. DefaultBindings() exposes the underlying
// data as a flat (Mode, Key, Command) table, handy to write and diff,
// compiled here into a real trie per mode so multi-key sequences
// ("g g") and sticky nodes are native instead of being special-cased
// per binding.
package keymap

import "strings"

// LeafKind is what a trie path resolves to.
type LeafKind int

const (
	LeafCommand LeafKind = iota
	LeafSequence
)

type trieNode struct {
	children map[string]*trieNode
	leaf     LeafKind
	command  string
	sequence []string
	isLeaf   bool
	sticky   bool
	label    string
}

func newNode() *trieNode { return &trieNode{children: map[string]*trieNode{}} }

// Trie is the per-mode key trie.
type Trie struct {
	root *trieNode
}

// NewTrie creates an empty trie.
func NewTrie() *Trie { return &Trie{root: newNode()} }

// Bind inserts a single-command binding for a space-separated key sequence
// (e.g. "g g", "ctrl+w h").
func (t *Trie) Bind(keys string, command string) {
	t.bindPath(keys, command, nil, false)
}

// BindSequence inserts a multi-command binding.
func (t *Trie) BindSequence(keys string, commands []string) {
	t.bindPath(keys, "", commands, false)
}

// BindSticky marks the interior node at keys as sticky: once entered,
// the trie stays at that node across command invocations until Esc
// returns to root.
func (t *Trie) BindSticky(keys string, label string) {
	n := t.ensurePath(keys)
	n.sticky = true
	n.label = label
}

func (t *Trie) bindPath(keys, command string, seq []string, sticky bool) {
	n := t.ensurePath(keys)
	n.isLeaf = true
	if seq != nil {
		n.leaf = LeafSequence
		n.sequence = seq
	} else {
		n.leaf = LeafCommand
		n.command = command
	}
	n.sticky = sticky
}

func (t *Trie) ensurePath(keys string) *trieNode {
	parts := strings.Fields(keys)
	cur := t.root
	for _, p := range parts {
		p = Canonicalize(p)
		next, ok := cur.children[p]
		if !ok {
			next = newNode()
			cur.children[p] = next
		}
		cur = next
	}
	return cur
}

// Walker tracks progress through a Trie across successive key events,
// tracking whether it is mid-sequence or has reached a leaf.
type Walker struct {
	trie    *Trie
	current *trieNode
}

// NewWalker creates a walker at the trie's root.
func NewWalker(t *Trie) *Walker { return &Walker{trie: t, current: t.root} }

// Result describes what a key press produced.
type Result struct {
	Matched    bool
	Command    string   // set when a LeafCommand is reached
	Sequence   []string // set when a LeafSequence is reached
	Descended  bool     // still walking a multi-key prefix
	StuckAt    string   // non-empty if we're now inside a sticky node
	Unmatched  bool     // the key didn't match any edge; pending feedback, back to root
}

// Feed advances the walker by one key event (its canonical string form,
// e.g. "ctrl+w").
func (w *Walker) Feed(key string) Result {
	next, ok := w.current.children[Canonicalize(key)]
	if !ok {
		// a sticky node only accepts keys it defines; anything else
		// (and any unmatched prefix) returns to root without executing.
		w.current = w.trie.root
		return Result{Unmatched: true}
	}
	if next.isLeaf {
		result := Result{Matched: true}
		if next.leaf == LeafCommand {
			result.Command = next.command
		} else {
			result.Sequence = next.sequence
		}
		switch {
		case next.sticky:
			w.current = next
			result.StuckAt = next.label
		case w.current != w.trie.root && w.current.sticky:
			// the governing node is sticky: stay there so the next key
			// dispatches from the same prefix until Esc
			result.StuckAt = w.current.label
		default:
			w.current = w.trie.root
		}
		return result
	}
	w.current = next
	if next.sticky {
		return Result{Descended: true, StuckAt: next.label}
	}
	return Result{Descended: true}
}

// Reset returns the walker to the trie root (Esc from a sticky node).
func (w *Walker) Reset() { w.current = w.trie.root }

// AtRoot reports whether the walker is currently at the trie root.
func (w *Walker) AtRoot() bool { return w.current == w.trie.root }
