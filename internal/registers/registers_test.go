package registers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClipboard struct{ content string }

func (f *fakeClipboard) ReadAll() (string, error) { return f.content, nil }
func (f *fakeClipboard) WriteAll(s string) error  { f.content = s; return nil }

func TestBlackHoleDiscards(t *testing.T) {
	s := NewStore()
	s.Write('_', []string{"x"})
	require.Nil(t, s.Read('_', Context{}))
}

func TestSelectionCountRegister(t *testing.T) {
	s := NewStore()
	got := s.Read('#', Context{SelectionCount: 3})
	require.Equal(t, []string{"1", "2", "3"}, got)
}

func TestClipboardReconciliation(t *testing.T) {
	fc := &fakeClipboard{}
	s := &Store{values: map[rune][]string{}, clipboard: fc, primary: fc}

	s.Write('*', []string{"hello", "world"})
	require.Equal(t, []string{"hello", "world"}, s.Read('*', Context{}))

	// external program changes the clipboard
	fc.content = "something else"
	require.Equal(t, []string{"something else"}, s.Read('*', Context{}))
}

func TestNamedRegisterRoundTrip(t *testing.T) {
	s := NewStore()
	s.Write('a', []string{"one", "two"})
	require.Equal(t, []string{"one", "two"}, s.Read('a', Context{}))
	s.Push('a', "zero")
	require.Equal(t, []string{"zero", "one", "two"}, s.Read('a', Context{}))
}
