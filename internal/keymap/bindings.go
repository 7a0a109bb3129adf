package keymap

// Mode names the per-mode trie a binding belongs to.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeInsert   Mode = "insert"
	ModeSelect   Mode = "select"
	ModeCommand  Mode = "command"
)

// Binding is the flat declarative shape the defaults are authored in;
// LoadDefaults compiles these into one Trie per Mode.
type Binding struct {
	Mode    Mode
	Key     string
	Command string
	// Sequence, when set, takes priority over Command and produces a
	// LeafSequence binding (a single keystroke running several
	// commands in order).
	Sequence []string
}

// DefaultBindings returns riv's built-in keymap, modeled after
// vim/helix-style modal conventions: hjkl motion, multi-key prefixes
// like "g", and a sticky "ctrl+w" window prefix.
func DefaultBindings() []Binding {
	return []Binding{
		// Normal mode: motions
		{Mode: ModeNormal, Key: "h", Command: "move_char_left"},
		{Mode: ModeNormal, Key: "left", Command: "move_char_left"},
		{Mode: ModeNormal, Key: "l", Command: "move_char_right"},
		{Mode: ModeNormal, Key: "right", Command: "move_char_right"},
		{Mode: ModeNormal, Key: "j", Command: "move_line_down"},
		{Mode: ModeNormal, Key: "down", Command: "move_line_down"},
		{Mode: ModeNormal, Key: "k", Command: "move_line_up"},
		{Mode: ModeNormal, Key: "up", Command: "move_line_up"},
		{Mode: ModeNormal, Key: "w", Command: "move_next_word_start"},
		{Mode: ModeNormal, Key: "b", Command: "move_prev_word_start"},
		{Mode: ModeNormal, Key: "e", Command: "move_next_word_end"},
		{Mode: ModeNormal, Key: "0", Command: "goto_line_start"},
		{Mode: ModeNormal, Key: "$", Command: "goto_line_end"},
		{Mode: ModeNormal, Key: "g g", Command: "goto_file_start"},
		{Mode: ModeNormal, Key: "G", Command: "goto_file_end"},
		{Mode: ModeNormal, Key: "g d", Command: "goto_definition"},
		{Mode: ModeNormal, Key: "g r", Command: "goto_references"},
		{Mode: ModeNormal, Key: "g h", Command: "goto_hover"},

		// Normal mode: selection / editing
		{Mode: ModeNormal, Key: "v", Command: "enter_select_mode"},
		{Mode: ModeNormal, Key: "x", Command: "select_line"},
		{Mode: ModeNormal, Key: "%", Command: "select_all"},
		{Mode: ModeNormal, Key: "d", Command: "delete_selection"},
		{Mode: ModeNormal, Key: "c", Sequence: []string{"delete_selection", "enter_insert_mode"}},
		{Mode: ModeNormal, Key: "y", Command: "yank"},
		{Mode: ModeNormal, Key: "p", Command: "paste_after"},
		{Mode: ModeNormal, Key: "P", Command: "paste_before"},
		{Mode: ModeNormal, Key: "ctrl+a", Command: "increment"},
		{Mode: ModeNormal, Key: "ctrl+x", Command: "decrement"},
		{Mode: ModeNormal, Key: "u", Command: "undo"},
		{Mode: ModeNormal, Key: "U", Command: "redo"},
		{Mode: ModeNormal, Key: "i", Command: "enter_insert_mode"},
		{Mode: ModeNormal, Key: "a", Command: "enter_insert_mode_after"},
		{Mode: ModeNormal, Key: "o", Sequence: []string{"open_line_below", "enter_insert_mode"}},
		{Mode: ModeNormal, Key: "O", Sequence: []string{"open_line_above", "enter_insert_mode"}},
		{Mode: ModeNormal, Key: "esc", Command: "collapse_selection"},
		{Mode: ModeNormal, Key: ":", Command: "enter_command_mode"},
		{Mode: ModeNormal, Key: "/", Command: "search"},
		{Mode: ModeNormal, Key: "n", Command: "search_next"},
		{Mode: ModeNormal, Key: "N", Command: "search_prev"},

		// Normal mode: sticky window-management prefix (ctrl+w)
		{Mode: ModeNormal, Key: "ctrl+w h", Command: "focus_left"},
		{Mode: ModeNormal, Key: "ctrl+w l", Command: "focus_right"},
		{Mode: ModeNormal, Key: "ctrl+w j", Command: "focus_down"},
		{Mode: ModeNormal, Key: "ctrl+w k", Command: "focus_up"},
		{Mode: ModeNormal, Key: "ctrl+w v", Command: "vsplit"},
		{Mode: ModeNormal, Key: "ctrl+w s", Command: "hsplit"},
		{Mode: ModeNormal, Key: "ctrl+w q", Command: "close_view"},

		// Normal mode: LSP/completion/terminal surfaces
		{Mode: ModeNormal, Key: "space k", Command: "signature_help"},
		{Mode: ModeNormal, Key: "space a", Command: "code_action"},
		{Mode: ModeNormal, Key: "space r", Command: "rename_symbol"},
		{Mode: ModeNormal, Key: "space d", Command: "toggle_diagnostics"},
		{Mode: ModeNormal, Key: "space p", Command: "open_command_palette"},
		{Mode: ModeNormal, Key: "ctrl+grave", Command: "toggle_terminal_panel"},
		{Mode: ModeNormal, Key: "f5", Command: "debug_continue"},
		{Mode: ModeNormal, Key: "f9", Command: "debug_toggle_breakpoint"},
		{Mode: ModeNormal, Key: "f10", Command: "debug_step_over"},
		{Mode: ModeNormal, Key: "f11", Command: "debug_step_into"},

		// Insert mode
		{Mode: ModeInsert, Key: "esc", Command: "enter_normal_mode"},
		{Mode: ModeInsert, Key: "ctrl+space", Command: "trigger_completion"},
		{Mode: ModeInsert, Key: "ctrl+n", Command: "completion_next"},
		{Mode: ModeInsert, Key: "ctrl+p", Command: "completion_prev"},
		{Mode: ModeInsert, Key: "tab", Command: "accept_completion_or_indent"},
		{Mode: ModeInsert, Key: "backspace", Command: "delete_char_backward"},
		{Mode: ModeInsert, Key: "enter", Command: "insert_newline"},
		{Mode: ModeInsert, Key: "ctrl+w", Command: "delete_word_backward"},

		// Select mode
		{Mode: ModeSelect, Key: "esc", Command: "enter_normal_mode"},
		{Mode: ModeSelect, Key: "h", Command: "extend_char_left"},
		{Mode: ModeSelect, Key: "l", Command: "extend_char_right"},
		{Mode: ModeSelect, Key: "j", Command: "extend_line_down"},
		{Mode: ModeSelect, Key: "k", Command: "extend_line_up"},
		{Mode: ModeSelect, Key: "w", Command: "extend_next_word_start"},
		{Mode: ModeSelect, Key: "d", Command: "delete_selection"},
		{Mode: ModeSelect, Key: "y", Command: "yank"},

		// Command-line mode
		{Mode: ModeCommand, Key: "esc", Command: "cancel_command_line"},
		{Mode: ModeCommand, Key: "enter", Command: "execute_command_line"},
		{Mode: ModeCommand, Key: "tab", Command: "command_line_complete"},
	}
}

// Registry owns one compiled Trie per mode.
type Registry struct {
	tries map[Mode]*Trie
}

// NewRegistry builds a registry with an empty trie per known mode.
func NewRegistry() *Registry {
	r := &Registry{tries: map[Mode]*Trie{
		ModeNormal:  NewTrie(),
		ModeInsert:  NewTrie(),
		ModeSelect:  NewTrie(),
		ModeCommand: NewTrie(),
	}}
	return r
}

// RegisterBinding compiles one flat Binding into its mode's trie.
func (r *Registry) RegisterBinding(b Binding) {
	t, ok := r.tries[b.Mode]
	if !ok {
		t = NewTrie()
		r.tries[b.Mode] = t
	}
	if b.Sequence != nil {
		t.BindSequence(b.Key, b.Sequence)
	} else {
		t.Bind(b.Key, b.Command)
	}
}

// RegisterDefaults loads DefaultBindings into the registry.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
	// ctrl+w is a sticky prefix: several keystrokes can follow it
	// without returning to the root trie node.
	if t, ok := r.tries[ModeNormal]; ok {
		t.BindSticky("ctrl+w", "window")
	}
}

// ApplyLayer compiles one mode's raw config key table on top of
// whatever is already bound, so user bindings override defaults
// key-by-key: a string value is a single command, an array is a
// command sequence.
func (r *Registry) ApplyLayer(mode Mode, layer map[string]any) {
	for key, val := range layer {
		switch v := val.(type) {
		case string:
			r.RegisterBinding(Binding{Mode: mode, Key: key, Command: v})
		case []any:
			var seq []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					seq = append(seq, s)
				}
			}
			if len(seq) > 0 {
				r.RegisterBinding(Binding{Mode: mode, Key: key, Sequence: seq})
			}
		}
	}
}

// Trie returns the compiled trie for a mode, or nil if unknown.
func (r *Registry) Trie(m Mode) *Trie { return r.tries[m] }

// Walker returns a fresh walker over a mode's trie.
func (r *Registry) Walker(m Mode) *Walker {
	t := r.tries[m]
	if t == nil {
		t = NewTrie()
	}
	return NewWalker(t)
}
