package handlers

import (
	"testing"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/rope"
	"github.com/rivedit/riv/internal/runtime"
	"github.com/stretchr/testify/require"
)

type fakeInlineProvider struct {
	result InlineResult
	ok     bool
}

func (f *fakeInlineProvider) InlineComplete(doc *document.Document, cursor int) (InlineResult, bool) {
	return f.result, f.ok
}

func TestRenderEndOfLineDecoration(t *testing.T) {
	doc := document.Open("f.go", "func foo() {\n")
	c := &InlineCompletionCoordinator{tabWidth: 4}
	result := InlineResult{ReplaceRange: rope.Range{Anchor: 0, Head: 12}, Text: "\n\treturn nil\n}"}
	lines := c.render(doc, 12, result)
	require.NotEmpty(t, lines)
	require.Equal(t, GhostDecoration, lines[0].Kind)
}

func TestRenderOutsideReplaceRangeDiscarded(t *testing.T) {
	doc := document.Open("f.go", "func foo() {\n")
	c := &InlineCompletionCoordinator{tabWidth: 4}
	result := InlineResult{ReplaceRange: rope.Range{Anchor: 0, Head: 3}, Text: "bar"}
	lines := c.render(doc, 12, result)
	require.Nil(t, lines)
}

func TestExpandTabs(t *testing.T) {
	require.Equal(t, "a   b", expandTabs("a\tb", 4))
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	loop := runtime.NewLoop(1)
	c := NewInlineCompletionCoordinator(loop, &fakeInlineProvider{}, 4)
	before := c.debounce.Generation()
	c.Invalidate()
	require.Greater(t, c.debounce.Generation(), before)
}
