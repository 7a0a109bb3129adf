package keymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyEventCanonicalRoundTrip(t *testing.T) {
	cases := []string{"a", "G", "esc", "tab", "f5", "ctrl+w", "ctrl+alt+delete", "ctrl+shift+tab", "alt+enter"}
	for _, s := range cases {
		ev := ParseKeyEvent(s)
		require.Equal(t, s, ev.String(), "canonical form should round-trip for %q", s)
		require.Equal(t, ev, ParseKeyEvent(ev.String()))
	}
}

func TestKeyEventNormalizesSpelling(t *testing.T) {
	require.Equal(t, "ctrl+w", Canonicalize("Ctrl+W"))
	require.Equal(t, "alt+x", Canonicalize("meta+x"))
	require.Equal(t, "ctrl+alt+a", Canonicalize("alt+ctrl+a"))
	require.Equal(t, "esc", Canonicalize("Esc"))
	require.Equal(t, "G", Canonicalize("G"))
}
