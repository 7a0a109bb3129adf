package terminal

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// EncodeKey translates one bubbletea key event into the bytes a real
// terminal would have sent the child process. appCursor selects SS3
// arrow encoding when the child has set DECCKM. Keys with no PTY
// representation (media and lock keys) encode to nil.
func EncodeKey(msg tea.KeyMsg, appCursor bool) []byte {
	if b, ok := encodeArrow(msg, appCursor); ok {
		return b
	}
	if b, ok := encodeFunctionKey(msg); ok {
		return b
	}
	if b, ok := encodeNamed(msg); ok {
		return b
	}
	if b, ok := encodeCtrlLetter(msg); ok {
		return b
	}
	if msg.Type == tea.KeyRunes {
		s := string(msg.Runes)
		if msg.Alt {
			return append([]byte{0x1b}, []byte(s)...)
		}
		return []byte(s)
	}
	return nil
}

// modifierCode encodes shift/alt/ctrl per the xterm "1;N" convention:
// N = 1 + shift + 2*alt + 4*ctrl.
func modifierCode(shift, alt, ctrl bool) int {
	n := 1
	if shift {
		n += 1
	}
	if alt {
		n += 2
	}
	if ctrl {
		n += 4
	}
	return n
}

func encodeArrow(msg tea.KeyMsg, appCursor bool) ([]byte, bool) {
	var final byte
	switch msg.Type {
	case tea.KeyUp:
		final = 'A'
	case tea.KeyDown:
		final = 'B'
	case tea.KeyRight:
		final = 'C'
	case tea.KeyLeft:
		final = 'D'
	default:
		return nil, false
	}

	// bubbletea reports modified arrows via their String() form
	// ("shift+up", "ctrl+left", ...); msg.Type stays the base arrow.
	shift, alt, ctrl := decodeModifierSuffix(msg.String())
	if !shift && !alt && !ctrl {
		if appCursor {
			return []byte{0x1b, 'O', final}, true
		}
		return []byte{0x1b, '[', final}, true
	}
	n := modifierCode(shift, alt, ctrl)
	return []byte(fmt.Sprintf("\x1b[1;%d%c", n, final)), true
}

// decodeModifierSuffix reads bubbletea's "shift+up"/"ctrl+alt+left"
// style key strings for the modifier bits riv's arrow encoding needs.
func decodeModifierSuffix(s string) (shift, alt, ctrl bool) {
	for _, part := range splitPlus(s) {
		switch part {
		case "shift":
			shift = true
		case "alt":
			alt = true
		case "ctrl":
			ctrl = true
		}
	}
	return
}

func splitPlus(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '+' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// encodeFunctionKey handles F1-F12: F1-F4 via SS3, F5-F12 via CSI with
// tilde.
func encodeFunctionKey(msg tea.KeyMsg) ([]byte, bool) {
	ss3 := map[tea.KeyType]byte{
		tea.KeyF1: 'P', tea.KeyF2: 'Q', tea.KeyF3: 'R', tea.KeyF4: 'S',
	}
	if final, ok := ss3[msg.Type]; ok {
		return []byte{0x1b, 'O', final}, true
	}

	tilde := map[tea.KeyType]int{
		tea.KeyF5: 15, tea.KeyF6: 17, tea.KeyF7: 18, tea.KeyF8: 19,
		tea.KeyF9: 20, tea.KeyF10: 21, tea.KeyF11: 23, tea.KeyF12: 24,
	}
	if code, ok := tilde[msg.Type]; ok {
		return []byte(fmt.Sprintf("\x1b[%d~", code)), true
	}
	return nil, false
}

func encodeNamed(msg tea.KeyMsg) ([]byte, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return []byte{'\r'}, true
	case tea.KeyTab:
		return []byte{'\t'}, true
	case tea.KeyBackspace:
		return []byte{0x7f}, true
	case tea.KeyEscape:
		return []byte{0x1b}, true
	case tea.KeySpace:
		return []byte{' '}, true
	case tea.KeyHome:
		return []byte{0x1b, '[', 'H'}, true
	case tea.KeyEnd:
		return []byte{0x1b, '[', 'F'}, true
	case tea.KeyPgUp:
		return []byte{0x1b, '[', '5', '~'}, true
	case tea.KeyPgDown:
		return []byte{0x1b, '[', '6', '~'}, true
	case tea.KeyDelete:
		return []byte{0x1b, '[', '3', '~'}, true
	case tea.KeyInsert:
		return []byte{0x1b, '[', '2', '~'}, true
	}
	return nil, false
}

// ctrlAliases maps the non-letter control characters (@/[/\\/]/^/_ and
// their aliases) to their control bytes.
var ctrlAliases = map[tea.KeyType]byte{
	tea.KeyCtrlAt:           0x00, // ctrl+@ / ctrl+space / ctrl+2
	tea.KeyCtrlOpenBracket:  0x1b, // ctrl+[ (alias for Esc)
	tea.KeyCtrlBackslash:    0x1c,
	tea.KeyCtrlCloseBracket: 0x1d,
	tea.KeyCtrlCaret:        0x1e,
	tea.KeyCtrlUnderscore:   0x1f,
}

func encodeCtrlLetter(msg tea.KeyMsg) ([]byte, bool) {
	if b, ok := ctrlAliases[msg.Type]; ok {
		return []byte{b}, true
	}
	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		// Ctrl+letter -> ch - 'a' + 1.
		offset := byte(msg.Type - tea.KeyCtrlA)
		return []byte{offset + 1}, true
	}
	return nil, false
}
