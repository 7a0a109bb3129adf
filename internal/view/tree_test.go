package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAndResize(t *testing.T) {
	v1 := New(0, 1)
	tr := NewTree(v1, Rect{X: 0, Y: 0, W: 100, H: 40})
	require.Len(t, tr.Views(), 1)

	v2 := New(0, 2)
	tr.Split(v2, LayoutVertical)
	require.Len(t, tr.Views(), 2)
	require.Equal(t, tr.Focus(), v2)

	for _, v := range tr.Views() {
		require.Greater(t, v.Area.W, 0)
		require.Greater(t, v.Area.H, 0)
	}
}

func TestRemoveCollapsesContainer(t *testing.T) {
	v1 := New(0, 1)
	tr := NewTree(v1, Rect{X: 0, Y: 0, W: 80, H: 24})
	v2 := New(0, 2)
	tr.Split(v2, LayoutHorizontal)

	tr.Remove(v2.ID)
	require.Len(t, tr.Views(), 1)
	require.Equal(t, tr.Focus(), v1)
	require.Equal(t, 80, v1.Area.W)
}
