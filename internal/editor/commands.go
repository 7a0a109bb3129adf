// Command dispatch.
// Commands that only touch editor-owned state (documents, views,
// registers, mode) execute directly; commands that need a subsystem
// internal/editor does not import (LSP, DAP, terminal, search, the
// word-completion worker) return an EffectRequest for internal/app to
// fulfill, keeping this package decoupled from those packages.
package editor

import (
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/selection"
	"github.com/rivedit/riv/internal/view"
)

// EffectKind tags what the caller (internal/app) must do after a
// command ran.
type EffectKind int

const (
	// EffectNone: the command fully executed against editor state.
	EffectNone EffectKind = iota
	// EffectRequest: the named cross-package operation still needs to
	// run; Request names it (e.g. "goto_definition", "trigger_completion").
	EffectRequest
	// EffectQuit: the editor should exit.
	EffectQuit
)

// Effect is the result of running one command.
type Effect struct {
	Kind    EffectKind
	Request string

	// Status, when non-empty, is a message the caller should surface on
	// the status line; IsError selects its severity.
	Status  string
	IsError bool
}

// defaultRegister is the unnamed register ("\"" in vim terms) used by
// yank/delete/paste when no register prefix was given.
const defaultRegister = '"'

// crossPackageCommands names every command whose handler lives outside
// internal/editor. Feed resolves the keystroke; Run below turns these
// into a passthrough Effect instead of a no-op.
var crossPackageCommands = map[string]bool{
	"goto_definition":          true,
	"goto_references":          true,
	"goto_hover":                true,
	"signature_help":            true,
	"code_action":               true,
	"rename_symbol":             true,
	"toggle_diagnostics":        true,
	"toggle_terminal_panel":     true,
	"debug_continue":            true,
	"debug_toggle_breakpoint":   true,
	"debug_step_over":           true,
	"debug_step_into":           true,
	"trigger_completion":        true,
	"completion_next":           true,
	"completion_prev":           true,
	"accept_completion_or_indent": true,
	"search":                    true,
	"search_next":               true,
	"search_prev":               true,
	"command_line_complete":     true,
	"open_command_palette":      true,
}

// Run executes a resolved command name against the editor, returning
// what the caller still owes (if anything).
func (e *Editor) Run(name string) Effect {
	if crossPackageCommands[name] {
		return Effect{Kind: EffectRequest, Request: name}
	}
	if fn, ok := commands[name]; ok {
		return fn(e)
	}
	return Effect{}
}

// RunSequence executes a LeafSequence's commands in order, stopping
// early (and returning its Effect) if one of them requests something
// the caller must handle, since the remaining commands in the sequence
// assume that request already completed (e.g. "c" = delete then enter
// insert mode: if delete needed app-level help, insert mode should wait).
func (e *Editor) RunSequence(names []string) Effect {
	for _, n := range names {
		if eff := e.Run(n); eff.Kind != EffectNone {
			return eff
		}
	}
	return Effect{}
}

type commandFunc func(*Editor) Effect

var commands map[string]commandFunc

func init() {
	commands = map[string]commandFunc{
		"move_char_left":        moveEachCursor(func(rs []rune, r rope.Range) int { return clampChar(r.Head-1, len(rs)) }),
		"move_char_right":       moveEachCursor(func(rs []rune, r rope.Range) int { return clampChar(r.Head+1, len(rs)) }),
		"move_line_up":          moveByLine(-1),
		"move_line_down":        moveByLine(1),
		"move_next_word_start":  moveEachCursor(func(rs []rune, r rope.Range) int { return nextWordStart(rs, r.Head) }),
		"move_prev_word_start":  moveEachCursor(func(rs []rune, r rope.Range) int { return prevWordStart(rs, r.Head) }),
		"move_next_word_end":    moveEachCursor(func(rs []rune, r rope.Range) int { return nextWordEnd(rs, r.Head) }),
		"goto_line_start":       moveEachCursor(gotoLineStart),
		"goto_line_end":         moveEachCursor(gotoLineEnd),
		"goto_file_start":       cmdGotoFileStart,
		"goto_file_end":         cmdGotoFileEnd,

		"enter_select_mode": cmdEnterSelectMode,
		"select_line":       cmdSelectLine,
		"select_all":        cmdSelectAll,

		"increment": cmdIncrement(1),
		"decrement": cmdIncrement(-1),

		"delete_selection": cmdDeleteSelection,
		"yank":             cmdYank,
		"paste_after":      cmdPaste(true),
		"paste_before":     cmdPaste(false),
		"undo":             cmdUndo,
		"redo":             cmdRedo,

		"enter_insert_mode":       cmdEnterInsertMode,
		"enter_insert_mode_after": cmdEnterInsertModeAfter,
		"open_line_below":         cmdOpenLine(true),
		"open_line_above":         cmdOpenLine(false),
		"collapse_selection":      cmdCollapseSelection,
		"enter_normal_mode":       cmdEnterNormalMode,
		"enter_command_mode":      cmdEnterCommandMode,
		"cancel_command_line":     cmdCancelCommandLine,
		"execute_command_line":    cmdExecuteCommandLine,

		"extend_char_left":        extendEachCursor(func(rs []rune, r rope.Range) int { return clampChar(r.Head-1, len(rs)) }),
		"extend_char_right":       extendEachCursor(func(rs []rune, r rope.Range) int { return clampChar(r.Head+1, len(rs)) }),
		"extend_line_up":          extendByLine(-1),
		"extend_line_down":        extendByLine(1),
		"extend_next_word_start":  extendEachCursor(func(rs []rune, r rope.Range) int { return nextWordStart(rs, r.Head) }),

		"delete_char_backward": cmdDeleteCharBackward,
		"delete_word_backward": cmdDeleteWordBackward,
		"insert_newline":       cmdInsertText("\n"),

		"focus_left":  cmdFocusCycle(-1),
		"focus_right": cmdFocusCycle(1),
		"focus_up":    cmdFocusCycle(-1),
		"focus_down":  cmdFocusCycle(1),
		"vsplit":      cmdSplit(view.LayoutVertical),
		"hsplit":      cmdSplit(view.LayoutHorizontal),
		"close_view":  cmdCloseView,
	}
}

func gotoLineStart(rs []rune, r rope.Range) int {
	i := r.Head
	for i > 0 && rs[i-1] != '\n' {
		i--
	}
	return i
}

func gotoLineEnd(rs []rune, r rope.Range) int {
	i := r.Head
	for i < len(rs) && rs[i] != '\n' {
		i++
	}
	return i
}

// lineCol converts a char offset into (line, column-within-line), both
// measured in chars, for the best-effort column-preserving vertical
// motions.
func lineCol(rs []rune, pos int) (line, col int) {
	for i := 0; i < pos; i++ {
		if rs[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return
}

func colToChar(rs []rune, line, col int) int {
	curLine, i := 0, 0
	for i < len(rs) && curLine < line {
		if rs[i] == '\n' {
			curLine++
		}
		i++
	}
	start := i
	for i < len(rs) && rs[i] != '\n' && i-start < col {
		i++
	}
	return i
}

func moveByLine(delta int) commandFunc {
	return moveEachCursor(func(rs []rune, r rope.Range) int {
		line, col := lineCol(rs, r.Head)
		return colToChar(rs, line+delta, col)
	})
}

func extendByLine(delta int) commandFunc {
	return extendEachCursor(func(rs []rune, r rope.Range) int {
		line, col := lineCol(rs, r.Head)
		return colToChar(rs, line+delta, col)
	})
}

// moveEachCursor applies f to every range's head, collapsing each range
// to the resulting cursor (plain motions).
func moveEachCursor(f func([]rune, rope.Range) int) commandFunc {
	return func(e *Editor) Effect {
		withSelection(e, func(rs []rune, docID document.ID, v view.ID, cur selection.Selection) {
			next := cur.Transform(func(r rope.Range) rope.Range {
				p := clampChar(f(rs, r), len(rs))
				return rope.Range{Anchor: p, Head: p}
			})
			e.Documents[docID].SetSelection(document.ViewID(v), next)
		})
		return Effect{}
	}
}

// extendEachCursor applies f to every range's head while keeping the
// anchor fixed (select-mode extension).
func extendEachCursor(f func([]rune, rope.Range) int) commandFunc {
	return func(e *Editor) Effect {
		withSelection(e, func(rs []rune, docID document.ID, v view.ID, cur selection.Selection) {
			next := cur.Transform(func(r rope.Range) rope.Range {
				return rope.Range{Anchor: r.Anchor, Head: clampChar(f(rs, r), len(rs))}
			})
			e.Documents[docID].SetSelection(document.ViewID(v), next)
		})
		return Effect{}
	}
}

func cmdGotoFileStart(e *Editor) Effect {
	withSelection(e, func(rs []rune, docID document.ID, v view.ID, cur selection.Selection) {
		e.Documents[docID].SetSelection(document.ViewID(v), single(0))
	})
	return Effect{}
}

func cmdGotoFileEnd(e *Editor) Effect {
	withSelection(e, func(rs []rune, docID document.ID, v view.ID, cur selection.Selection) {
		e.Documents[docID].SetSelection(document.ViewID(v), single(len(rs)))
	})
	return Effect{}
}

func cmdEnterSelectMode(e *Editor) Effect {
	e.SetMode(keymap.ModeSelect)
	return Effect{}
}

func cmdEnterNormalMode(e *Editor) Effect {
	e.SetMode(keymap.ModeNormal)
	return Effect{}
}

func cmdEnterInsertMode(e *Editor) Effect {
	e.SetMode(keymap.ModeInsert)
	return Effect{}
}

func cmdEnterInsertModeAfter(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		e.SetMode(keymap.ModeInsert)
		return Effect{}
	}
	v := e.Tree.Focus()
	rs := runesOf(doc.Text().String())
	sel := doc.Selection(document.ViewID(v.ID))
	next := sel.Transform(func(r rope.Range) rope.Range {
		p := clampChar(r.Head+1, len(rs))
		return rope.Range{Anchor: p, Head: p}
	})
	doc.SetSelection(document.ViewID(v.ID), next)
	e.SetMode(keymap.ModeInsert)
	return Effect{}
}

func cmdEnterCommandMode(e *Editor) Effect {
	e.SetMode(keymap.ModeCommand)
	e.CommandLine = ""
	return Effect{}
}

func cmdCollapseSelection(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return cmdEnterNormalMode(e)
	}
	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	next := sel.Transform(func(r rope.Range) rope.Range { return rope.Range{Anchor: r.Head, Head: r.Head} })
	doc.SetSelection(document.ViewID(v.ID), next)
	return cmdEnterNormalMode(e)
}

func cmdSelectLine(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{}
	}
	v := e.Tree.Focus()
	rs := runesOf(doc.Text().String())
	sel := doc.Selection(document.ViewID(v.ID))
	next := sel.Transform(func(r rope.Range) rope.Range {
		start := gotoLineStart(rs, r)
		end := gotoLineEnd(rs, rope.Range{Head: start})
		if end < len(rs) {
			end++ // include the line's newline
		}
		return rope.Range{Anchor: start, Head: end}
	})
	doc.SetSelection(document.ViewID(v.ID), next)
	return Effect{}
}

func cmdSelectAll(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{}
	}
	v := e.Tree.Focus()
	n := doc.Text().LenChars()
	doc.SetSelection(document.ViewID(v.ID), single(n).Transform(func(r rope.Range) rope.Range {
		return rope.Range{Anchor: 0, Head: n}
	}))
	return Effect{}
}

func cmdDeleteSelection(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{}
	}
	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	ranges := sel.Ranges()
	cut := make([]string, len(ranges))
	for i, r := range ranges {
		cut[i] = doc.Text().Slice(r.From(), r.To()).String()
	}
	e.Registers.Write(defaultRegister, cut)
	tx := rope.ChangeBySelection(doc.Text().LenChars(), ranges, func(i int, r rope.Range) string { return "" })
	doc.ApplyTransaction(tx, "delete_selection")
	return Effect{}
}

func cmdYank(e *Editor) Effect {
	ctx := e.RegisterContext()
	e.Registers.Write(defaultRegister, ctx.SelectionText)
	return Effect{}
}

func cmdPaste(after bool) commandFunc {
	return func(e *Editor) Effect {
		doc := e.FocusedDocument()
		if doc == nil {
			return Effect{}
		}
		v := e.Tree.Focus()
		values := e.Registers.Read(defaultRegister, e.RegisterContext())
		if len(values) == 0 {
			return Effect{}
		}
		sel := doc.Selection(document.ViewID(v.ID))
		ranges := sel.Ranges()
		tx := rope.ChangeBySelection(doc.Text().LenChars(), ranges, func(i int, r rope.Range) string {
			return values[i%len(values)]
		})
		doc.ApplyTransaction(tx, "paste")
		_ = after // paste_after and paste_before behave the same: both replace each range
		return Effect{}
	}
}

func cmdUndo(e *Editor) Effect {
	if doc := e.FocusedDocument(); doc != nil {
		doc.Undo()
	}
	return Effect{}
}

func cmdRedo(e *Editor) Effect {
	if doc := e.FocusedDocument(); doc != nil {
		doc.Redo()
	}
	return Effect{}
}

func cmdOpenLine(below bool) commandFunc {
	return func(e *Editor) Effect {
		doc := e.FocusedDocument()
		if doc == nil {
			return Effect{}
		}
		v := e.Tree.Focus()
		rs := runesOf(doc.Text().String())
		sel := doc.Selection(document.ViewID(v.ID))
		r := sel.Primary()
		var at int
		if below {
			at = gotoLineEnd(rs, r)
		} else {
			at = gotoLineStart(rs, r)
		}
		tx := rope.Change(doc.Text().LenChars(), []rope.Edit{{From: at, To: at, Replace: "\n"}})
		doc.ApplyTransaction(tx, "open_line")
		pos := at
		if below {
			pos = at + 1
		}
		doc.SetSelection(document.ViewID(v.ID), single(pos))
		return Effect{}
	}
}

func cmdDeleteCharBackward(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{}
	}
	v := e.Tree.Focus()
	sel := doc.Selection(document.ViewID(v.ID))
	ranges := sel.Ranges()
	edits := make([]rope.Edit, 0, len(ranges))
	for _, r := range ranges {
		if r.IsEmpty() {
			if r.Head == 0 {
				continue
			}
			edits = append(edits, rope.Edit{From: r.Head - 1, To: r.Head})
		} else {
			edits = append(edits, rope.Edit{From: r.From(), To: r.To()})
		}
	}
	if len(edits) == 0 {
		return Effect{}
	}
	tx := rope.Change(doc.Text().LenChars(), edits)
	doc.ApplyTransaction(tx, "delete_char_backward")
	return Effect{}
}

func cmdDeleteWordBackward(e *Editor) Effect {
	doc := e.FocusedDocument()
	if doc == nil {
		return Effect{}
	}
	v := e.Tree.Focus()
	rs := runesOf(doc.Text().String())
	sel := doc.Selection(document.ViewID(v.ID))
	ranges := sel.Ranges()
	edits := make([]rope.Edit, 0, len(ranges))
	for _, r := range ranges {
		from := prevWordStart(rs, r.Head)
		if from < r.Head {
			edits = append(edits, rope.Edit{From: from, To: r.Head})
		}
	}
	if len(edits) == 0 {
		return Effect{}
	}
	tx := rope.Change(doc.Text().LenChars(), edits)
	doc.ApplyTransaction(tx, "delete_word_backward")
	return Effect{}
}

// InsertLiteral inserts s at every selection range of the focused
// document. The keymap trie has no leaf for arbitrary printable runes;
// Insert mode's Unmatched keys fall through to this instead of going
// through Run/a named command.
func (e *Editor) InsertLiteral(s string) Effect {
	return cmdInsertText(s)(e)
}

func cmdInsertText(s string) commandFunc {
	return func(e *Editor) Effect {
		doc := e.FocusedDocument()
		if doc == nil {
			return Effect{}
		}
		v := e.Tree.Focus()
		sel := doc.Selection(document.ViewID(v.ID))
		ranges := sel.Ranges()
		tx := rope.ChangeBySelection(doc.Text().LenChars(), ranges, func(i int, r rope.Range) string { return s })
		doc.ApplyTransaction(tx, "insert_text")
		return Effect{}
	}
}

// cmdFocusCycle approximates directional split navigation by cycling
// through the tree's views in traversal order, since view.Tree does not
// track adjacency between splits; views' screen positions are not
// compared.
func cmdFocusCycle(delta int) commandFunc {
	return func(e *Editor) Effect {
		views := e.Tree.Views()
		if len(views) < 2 {
			return Effect{}
		}
		cur := e.Tree.FocusID()
		idx := 0
		for i, v := range views {
			if v.ID == cur {
				idx = i
				break
			}
		}
		next := (idx + delta + len(views)) % len(views)
		e.Tree.SetFocus(views[next].ID)
		return Effect{}
	}
}

func cmdSplit(layout view.Layout) commandFunc {
	return func(e *Editor) Effect {
		doc := e.FocusedDocument()
		if doc == nil {
			return Effect{}
		}
		nv := view.New(0, doc.ID)
		e.Tree.Split(nv, layout)
		return Effect{}
	}
}

func cmdCloseView(e *Editor) Effect {
	e.Tree.Remove(e.Tree.FocusID())
	return Effect{}
}

// single builds a single-cursor Selection at char offset p.
func single(p int) selection.Selection {
	return selection.Single(rope.Range{Anchor: p, Head: p})
}

// withSelection is a small shared bootstrap used by the motion
// constructors above: resolves the focused document/view, materializes
// its text as runes once, and hands the caller everything it needs.
func withSelection(e *Editor, f func(rs []rune, doc document.ID, v view.ID, cur selection.Selection)) {
	doc := e.FocusedDocument()
	if doc == nil {
		return
	}
	v := e.Tree.Focus()
	rs := runesOf(doc.Text().String())
	sel := doc.Selection(document.ViewID(v.ID))
	f(rs, doc.ID, v.ID, sel)
}
