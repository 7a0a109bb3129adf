package cliargs

import (
	"testing"

	"github.com/rivedit/riv/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParsePositionalPostfix(t *testing.T) {
	files, err := parsePositional([]string{"Cargo.toml:10"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, app.FileArg{Path: "Cargo.toml", Row: 9, Col: 0, HasPos: true}, files[0])
}

func TestParsePositionalPostfixRowAndCol(t *testing.T) {
	files, err := parsePositional([]string{"main.go:3:5"})
	require.NoError(t, err)
	require.Equal(t, app.FileArg{Path: "main.go", Row: 2, Col: 4, HasPos: true}, files[0])
}

func TestParsePositionalPostfixEOF(t *testing.T) {
	files, err := parsePositional([]string{"Cargo.toml:"})
	require.NoError(t, err)
	require.Equal(t, app.FileArg{Path: "Cargo.toml", Row: -1, Col: 0, HasPos: true}, files[0])
}

func TestParsePositionalPrefix(t *testing.T) {
	files, err := parsePositional([]string{"+10:5", "main.go"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, app.FileArg{Path: "main.go", Row: 9, Col: 4, HasPos: true}, files[0])
}

func TestParsePositionalPrefixEOF(t *testing.T) {
	files, err := parsePositional([]string{"+:", "main.go"})
	require.NoError(t, err)
	require.Equal(t, app.FileArg{Path: "main.go", Row: -1, Col: 0, HasPos: true}, files[0])
}

func TestParsePositionalNoPosition(t *testing.T) {
	files, err := parsePositional([]string{"main.go", "README.md"})
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.False(t, files[0].HasPos)
	require.False(t, files[1].HasPos)
}

func TestParsePositionalRejectsBothPrefixAndPostfix(t *testing.T) {
	_, err := parsePositional([]string{"+5", "main.go:10"})
	require.Error(t, err)
}

func TestParsePositionalRejectsDanglingPrefix(t *testing.T) {
	_, err := parsePositional([]string{"+5"})
	require.Error(t, err)
}

func TestParseRejectsVSplitAndHSplitTogether(t *testing.T) {
	_, err := Parse([]string{"--vsplit", "--hsplit", "a.go", "b.go"})
	require.Error(t, err)
}

func TestParseSplitLayout(t *testing.T) {
	p, err := Parse([]string{"--vsplit", "a.go", "b.go"})
	require.NoError(t, err)
	require.Equal(t, app.SplitVertical, p.Split)
	require.Len(t, p.Files, 2)
}

func TestParseVerbosity(t *testing.T) {
	p, err := Parse([]string{"-v", "-v", "main.go"})
	require.NoError(t, err)
	require.Equal(t, 2, p.Verbosity())
}
