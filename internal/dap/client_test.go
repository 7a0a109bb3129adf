package dap

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/rivedit/riv/internal/lsp"
	"github.com/stretchr/testify/require"
)

func TestRequestResponseRoundTrip(t *testing.T) {
	clientToAdapterR, clientToAdapterW := io.Pipe()
	adapterToClientR, adapterToClientW := io.Pipe()
	client := NewClient(lsp.NewTransport(adapterToClientR, clientToAdapterW))

	go func() {
		// act as the adapter: read the request, write back a response
		adapterSide := lsp.NewTransport(clientToAdapterR, adapterToClientW)
		raw, err := adapterSide.ReadMessage()
		if err != nil {
			return
		}
		var msg dapMessage
		json.Unmarshal(raw, &msg)
		resp := dapMessage{Type: "response", RequestSeq: msg.Seq, Success: true, Body: json.RawMessage(`{"ok":true}`)}
		adapterSide.Write(resp)
	}()

	done := make(chan struct{})
	go func() {
		client.Dispatch()
		close(done)
	}()

	body, err := client.Request("initialize", map[string]any{})
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(body))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not complete")
	}
}

func TestStoppedEventUpdatesState(t *testing.T) {
	c := NewClient(nil)
	c.handleEvent("stopped", json.RawMessage(`{"threadId":3,"reason":"breakpoint"}`))
	require.Equal(t, StateStopped, c.CurrentState())
	require.Equal(t, 3, c.ThreadID)
	require.Equal(t, "stopped", c.ThreadStates[3])
}

func TestBreakpointEventUpserts(t *testing.T) {
	c := NewClient(nil)
	c.handleEvent("breakpoint", json.RawMessage(`{"breakpoint":{"id":1,"verified":true,"line":10}}`))
	require.Len(t, c.Breakpoints, 1)
	c.handleEvent("breakpoint", json.RawMessage(`{"breakpoint":{"id":1,"verified":true,"line":12}}`))
	require.Len(t, c.Breakpoints, 1)
	require.Equal(t, 12, c.Breakpoints[0].Line)
}

func TestBreakpointEventRemoves(t *testing.T) {
	c := NewClient(nil)
	c.handleEvent("breakpoint", json.RawMessage(`{"breakpoint":{"id":1,"verified":true,"line":10}}`))
	c.handleEvent("breakpoint", json.RawMessage(`{"reason":"removed","breakpoint":{"id":1}}`))
	require.Empty(t, c.Breakpoints)
}
