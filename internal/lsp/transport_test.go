package lsp

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTransport(&buf, &buf)

	req, err := NewRequest(NumberID(1), "initialize", map[string]any{"x": 1})
	require.NoError(t, err)
	require.NoError(t, tr.Write(req))

	raw, err := tr.ReadMessage()
	require.NoError(t, err)

	var got Request
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, "initialize", got.Method)
}

func TestClassify(t *testing.T) {
	resp := Response{JSONRPC: Version, ID: NumberID(1), Result: json.RawMessage(`{}`)}
	raw, _ := json.Marshal(resp)
	kind, err := Classify(raw)
	require.NoError(t, err)
	require.Equal(t, KindResponse, kind)

	note := Notification{JSONRPC: Version, Method: "textDocument/publishDiagnostics"}
	raw, _ = json.Marshal(note)
	kind, err = Classify(raw)
	require.NoError(t, err)
	require.Equal(t, KindNotification, kind)

	req := Request{JSONRPC: Version, ID: idPtr(NumberID(2)), Method: "workspace/applyEdit"}
	raw, _ = json.Marshal(req)
	kind, err = Classify(raw)
	require.NoError(t, err)
	require.Equal(t, KindRequest, kind)
}

func idPtr(id ID) *ID { return &id }

func TestIDDecodesWholeNumberFloat(t *testing.T) {
	// some servers send ids like 1.0; they must decode to the integer
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1.0,"result":{}}`), &resp))
	require.Equal(t, NumberID(1), resp.ID)
}

func TestClassifyRejectsWrongVersion(t *testing.T) {
	_, err := Classify(json.RawMessage(`{"jsonrpc":"1.0","method":"x"}`))
	require.Error(t, err)
}
