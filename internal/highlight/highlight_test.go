package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonotonicOverlaySplitsSource(t *testing.T) {
	base := []Event{{Kind: EventSource, Start: 0, End: 10}}
	o := NewMonotonicOverlay([]RangeHighlight{{From: 2, To: 5, Highlight: 1}})
	out := o.Apply(base)

	require.Equal(t, []Event{
		{Kind: EventSource, Start: 0, End: 2},
		{Kind: EventHighlightStart, Highlight: 1},
		{Kind: EventSource, Start: 2, End: 5},
		{Kind: EventHighlightEnd, Highlight: 1},
		{Kind: EventSource, Start: 5, End: 10},
	}, out)
}

func TestOverlappingOverlaySortsFirst(t *testing.T) {
	base := []Event{{Kind: EventSource, Start: 0, End: 10}}
	o := NewOverlappingOverlay([]RangeHighlight{{From: 6, To: 8, Highlight: 2}, {From: 1, To: 3, Highlight: 1}})
	out := o.Apply(base)
	require.Equal(t, Highlight(1), out[1].Highlight)
	require.Equal(t, Highlight(2), out[5].Highlight)
}

func TestCursorOverlayEndOfRope(t *testing.T) {
	o := CursorOverlay{Ranges: []RangeHighlight{{From: 10, To: 10}}, CursorHigh: 9, DocLenChars: 10}
	// the formatter always emits a trailing EOF placeholder, so the
	// source stream covers one char past the document end.
	base := []Event{{Kind: EventSource, Start: 0, End: 11}}
	out := o.Apply(base)
	found := false
	for _, e := range out {
		if e.Kind == EventHighlightStart && e.Highlight == 9 {
			found = true
		}
	}
	require.True(t, found)
}
