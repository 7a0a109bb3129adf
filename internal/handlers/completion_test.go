package handlers

import (
	"testing"
	"time"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/runtime"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name       string
	items      []Item
	incomplete bool
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Complete(doc *document.Document, cursor int) ([]Item, bool) {
	return f.items, f.incomplete
}

func TestCompletionMergesMultipleProviders(t *testing.T) {
	loop := runtime.NewLoop(8)
	go loop.Run()
	defer loop.Stop()

	received := make(chan CompletionMsg, 8)
	loop.Use(func(m runtime.Msg) runtime.Cmd {
		if cm, ok := m.(CompletionMsg); ok {
			received <- cm
		}
		return nil
	})

	lsp := &fakeSource{name: "lsp", items: []Item{{Provider: "lsp", Label: "foo"}}}
	word := &fakeSource{name: "word", items: []Item{{Provider: "word", Label: "foobar"}}}

	c := NewCompletionCoordinator(loop, []Source{lsp, word}, 10*time.Millisecond)
	doc := document.New()
	c.AutoTrigger(Trigger{Doc: doc, Cursor: 0})

	var all []Item
	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			c.HandleResponse(msg, func(items []Item) { all = items })
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for completion response")
		}
	}
	require.Len(t, all, 2)
}

func TestCompletionCancelStopsStaleResponses(t *testing.T) {
	loop := runtime.NewLoop(8)
	c := NewCompletionCoordinator(loop, nil, 10*time.Millisecond)
	doc := document.New()
	c.AutoTrigger(Trigger{Doc: doc, Cursor: 5})
	gen := c.debounce.Generation()
	c.Cancel()

	settled := false
	c.HandleResponse(CompletionMsg{Generation: gen}, func(items []Item) { settled = true })
	require.False(t, settled)
}
