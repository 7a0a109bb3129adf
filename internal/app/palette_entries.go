package app

import (
	"github.com/rivedit/riv/internal/keymap"
	"github.com/rivedit/riv/internal/palette"
)

// commandLabel gives a human-readable name/description pair for a
// command identifier, for the entries the keymap binding itself can't
// describe (a Binding only carries the key and the raw command string).
var commandLabel = map[string][2]string{
	"move_char_left":          {"Move Left", "Move the cursor one character left"},
	"move_char_right":         {"Move Right", "Move the cursor one character right"},
	"move_line_up":            {"Move Up", "Move the cursor up one line"},
	"move_line_down":          {"Move Down", "Move the cursor down one line"},
	"move_next_word_start":    {"Next Word", "Move to the start of the next word"},
	"move_prev_word_start":    {"Previous Word", "Move to the start of the previous word"},
	"move_next_word_end":      {"Word End", "Move to the end of the current/next word"},
	"goto_line_start":         {"Line Start", "Move to the start of the line"},
	"goto_line_end":           {"Line End", "Move to the end of the line"},
	"goto_file_start":         {"File Start", "Move to the start of the file"},
	"goto_file_end":           {"File End", "Move to the end of the file"},
	"goto_definition":         {"Go to Definition", "Jump to the symbol's definition"},
	"goto_references":         {"Go to References", "List references to the symbol"},
	"goto_hover":              {"Hover", "Show hover information for the symbol"},
	"enter_select_mode":       {"Select Mode", "Enter select mode"},
	"select_line":             {"Select Line", "Select the current line"},
	"select_all":              {"Select All", "Select the entire buffer"},
	"delete_selection":        {"Delete", "Delete the current selection"},
	"yank":                    {"Yank", "Copy the selection to the register"},
	"paste_after":             {"Paste After", "Paste after the cursor"},
	"paste_before":            {"Paste Before", "Paste before the cursor"},
	"increment":               {"Increment", "Increment the date or number under the cursor"},
	"decrement":               {"Decrement", "Decrement the date or number under the cursor"},
	"undo":                    {"Undo", "Undo the last change"},
	"redo":                    {"Redo", "Redo the last undone change"},
	"enter_insert_mode":       {"Insert Mode", "Enter insert mode at the cursor"},
	"enter_insert_mode_after": {"Append", "Enter insert mode after the cursor"},
	"collapse_selection":      {"Normal Mode", "Collapse the selection and return to normal mode"},
	"enter_command_mode":      {"Command Mode", "Enter command-line mode"},
	"search":                  {"Search", "Search the buffer"},
	"search_next":             {"Next Match", "Jump to the next search match"},
	"search_prev":             {"Previous Match", "Jump to the previous search match"},
	"focus_left":              {"Focus Left", "Focus the split to the left"},
	"focus_right":             {"Focus Right", "Focus the split to the right"},
	"focus_up":                {"Focus Up", "Focus the split above"},
	"focus_down":              {"Focus Down", "Focus the split below"},
	"vsplit":                  {"Split Vertically", "Open a vertical split"},
	"hsplit":                  {"Split Horizontally", "Open a horizontal split"},
	"close_view":              {"Close Split", "Close the focused split"},
	"signature_help":          {"Signature Help", "Show the current call's parameter signature"},
	"code_action":             {"Code Action", "List available code actions"},
	"rename_symbol":           {"Rename Symbol", "Rename the symbol under the cursor"},
	"toggle_diagnostics":      {"Toggle Diagnostics", "Toggle the diagnostics panel"},
	"toggle_terminal_panel":   {"Toggle Terminal", "Show or hide the terminal panel"},
	"debug_continue":          {"Debug: Continue", "Resume the debuggee"},
	"debug_toggle_breakpoint": {"Debug: Toggle Breakpoint", "Toggle a breakpoint on the current line"},
	"debug_step_over":         {"Debug: Step Over", "Step over the current line"},
	"debug_step_into":         {"Debug: Step Into", "Step into the current call"},
	"open_command_palette":    {"Command Palette", "Open the command palette"},
}

// globalEntries lists the commands riv exposes regardless of mode — the
// ex-commands typed at the ":" prompt rather than bound to a key.
var globalEntries = []palette.PaletteEntry{
	{Name: "Write", Description: "Write the buffer to disk (:w)", Command: ":w", Layer: palette.LayerGlobal},
	{Name: "Write & Quit", Description: "Write then close the buffer (:wq)", Command: ":wq", Layer: palette.LayerGlobal},
	{Name: "Quit", Description: "Close the buffer, prompting if unsaved (:q)", Command: ":q", Layer: palette.LayerGlobal},
	{Name: "Force Quit", Description: "Close the buffer, discarding changes (:q!)", Command: ":q!", Layer: palette.LayerGlobal},
}

// languageServerCommands lists riv's LSP-backed commands scoped to doc's
// attached server, standing in for a live code-action list: riv doesn't
// keep one cached outside an active request, but a document known to
// have a server attached can still offer these by name.
var languageServerCommands = []string{"goto_definition", "goto_references", "goto_hover", "code_action", "rename_symbol"}

// buildPaletteEntries assembles the full entry set for the command
// palette: every default binding (keymap.DefaultBindings) for the
// focused mode, the fixed languageServerCommands list when the focused
// document has a language server attached, and the global ex-commands.
func (m *Model) buildPaletteEntries() []palette.PaletteEntry {
	mode := m.editor.Mode
	seen := map[string]int{} // command -> entry index, for counting keys bound to the same command in this mode

	var entries []palette.PaletteEntry
	for _, b := range keymap.DefaultBindings() {
		if b.Mode != mode {
			continue
		}
		cmd := b.Command
		if cmd == "" && len(b.Sequence) > 0 {
			cmd = b.Sequence[0]
		}
		if cmd == "" {
			continue
		}
		if idx, ok := seen[cmd]; ok {
			entries[idx].ContextCount++
			continue
		}
		label := commandLabel[cmd]
		name, desc := label[0], label[1]
		if name == "" {
			name = cmd
		}
		seen[cmd] = len(entries)
		entries = append(entries, palette.PaletteEntry{
			Key:          b.Key,
			Name:         name,
			Description:  desc,
			Command:      cmd,
			Layer:        palette.LayerCurrentMode,
			ContextCount: 1,
		})
	}

	if doc := m.editor.FocusedDocument(); doc != nil {
		if p := m.lspReg.provider(doc.Language); p != nil {
			for _, cmd := range languageServerCommands {
				label := commandLabel[cmd]
				entries = append(entries, palette.PaletteEntry{
					Name:        label[0],
					Description: label[1],
					Command:     cmd,
					Layer:       palette.LayerLanguageServer,
				})
			}
		}
	}

	entries = append(entries, globalEntries...)
	return entries
}
