package terminal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEncodeKey_Printable(t *testing.T) {
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, false)
	if string(got) != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestEncodeKey_AltPrefix(t *testing.T) {
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}, false)
	want := []byte{0x1b, 'a'}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncodeKey_ArrowsNormal(t *testing.T) {
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyUp}, false)
	want := []byte{0x1b, '[', 'A'}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncodeKey_ArrowsApplicationCursor(t *testing.T) {
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyUp}, true)
	want := []byte{0x1b, 'O', 'A'}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEncodeKey_CtrlLetter(t *testing.T) {
	// ctrl+a -> 0x01
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyCtrlA}, false)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestEncodeKey_FunctionKeysSS3AndTilde(t *testing.T) {
	got := EncodeKey(tea.KeyMsg{Type: tea.KeyF1}, false)
	want := []byte{0x1b, 'O', 'P'}
	if string(got) != string(want) {
		t.Errorf("F1: got %v, want %v", got, want)
	}

	got = EncodeKey(tea.KeyMsg{Type: tea.KeyF5}, false)
	want = []byte("\x1b[15~")
	if string(got) != string(want) {
		t.Errorf("F5: got %v, want %v", got, want)
	}
}

func TestEncodeKey_Named(t *testing.T) {
	cases := []struct {
		in   tea.KeyType
		want string
	}{
		{tea.KeyEnter, "\r"},
		{tea.KeyTab, "\t"},
		{tea.KeyBackspace, "\x7f"},
		{tea.KeyEscape, "\x1b"},
	}
	for _, tc := range cases {
		got := EncodeKey(tea.KeyMsg{Type: tc.in}, false)
		if string(got) != tc.want {
			t.Errorf("%v: got %q, want %q", tc.in, got, tc.want)
		}
	}
}
