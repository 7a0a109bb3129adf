package keymap

import (
	"sort"
	"strings"
)

// KeyEvent is one decoded key press: a key code plus a modifier set.
// The canonical string form is "mod+mod+code" with modifiers ordered
// ctrl, alt, shift and the code lowercased (except single uppercase
// letters, which keep their case instead of carrying a shift
// modifier).
type KeyEvent struct {
	Code  string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// modOrder fixes the canonical modifier ordering.
var modOrder = []string{"ctrl", "alt", "shift"}

// ParseKeyEvent decodes a key string like "ctrl+shift+tab", "esc" or
// "G" into its parts. Unknown modifier-looking prefixes are treated as
// part of the code so "space p" style sequences split elsewhere don't
// lose keys.
func ParseKeyEvent(s string) KeyEvent {
	var ev KeyEvent
	parts := strings.Split(s, "+")
	for len(parts) > 1 {
		switch strings.ToLower(parts[0]) {
		case "ctrl":
			ev.Ctrl = true
		case "alt", "meta":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		default:
			ev.Code = strings.Join(parts, "+")
			return ev
		}
		parts = parts[1:]
	}
	code := parts[0]
	if len([]rune(code)) > 1 || ev.Ctrl || ev.Alt {
		// named keys always lowercase; modified letters too, since the
		// terminal reports ctrl/alt chords case-insensitively
		code = strings.ToLower(code)
	}
	ev.Code = code
	return ev
}

// String re-emits the canonical form; ParseKeyEvent(ev.String()) == ev
// for every event, and parsing any spelling then re-emitting yields
// the same string thereafter.
func (ev KeyEvent) String() string {
	mods := make([]string, 0, 3)
	if ev.Ctrl {
		mods = append(mods, "ctrl")
	}
	if ev.Alt {
		mods = append(mods, "alt")
	}
	if ev.Shift {
		mods = append(mods, "shift")
	}
	sort.Slice(mods, func(i, j int) bool { return modIndex(mods[i]) < modIndex(mods[j]) })
	if len(mods) == 0 {
		return ev.Code
	}
	return strings.Join(mods, "+") + "+" + ev.Code
}

func modIndex(m string) int {
	for i, v := range modOrder {
		if v == m {
			return i
		}
	}
	return len(modOrder)
}

// Canonicalize normalizes a key string to its canonical spelling.
func Canonicalize(s string) string {
	return ParseKeyEvent(s).String()
}
