package lsp

import (
	"testing"

	"github.com/rivedit/riv/internal/rope"
	"github.com/stretchr/testify/require"
)

func TestCharToPositionASCII(t *testing.T) {
	r := rope.New("hello\nworld")
	pos := CharToPosition(r, 7, OffsetUTF16)
	require.Equal(t, Position{Line: 1, Character: 1}, pos)
}

func TestPositionToCharRoundTrip(t *testing.T) {
	r := rope.New("hello\nworld")
	for _, off := range []int{0, 3, 6, 9, 11} {
		pos := CharToPosition(r, off, OffsetUTF16)
		back := PositionToChar(r, pos, OffsetUTF16)
		require.Equal(t, off, back)
	}
}

func TestUTF16SurrogatePairCounts2(t *testing.T) {
	r := rope.New("a\U0001F600b") // emoji is 2 UTF-16 units, 1 char
	pos := CharToPosition(r, 2, OffsetUTF16)
	require.Equal(t, 3, pos.Character) // 'a' (1) + emoji (2 units)
}
