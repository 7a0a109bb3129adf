package lsp

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/btree"
)

// pendingEntry is one in-flight request, ordered by its sequence number
// so a client can enumerate outstanding requests in send order (Close
// walks it to fail every outstanding request).
type pendingEntry struct {
	seq    uint64
	id     ID
	method string
	resume chan Response
}

// OffsetEncoding is the unit the server expects positions to be in
// (negotiated at initialize time per the LSP spec's
// "positionEncoding" capability).
type OffsetEncoding int

const (
	OffsetUTF16 OffsetEncoding = iota // LSP default
	OffsetUTF8
	OffsetUTF32
)

// Client drives one language server connection: framing, the
// pending-request table, reverse-request dispatch, and offset
// conversion. It does not own a Document; callers pass rope text in
// for position conversion.
type Client struct {
	transport *Transport
	encoding  OffsetEncoding

	mu      sync.Mutex
	pending *btree.BTreeG[*pendingEntry]
	byID    map[string]*pendingEntry
	seq     uint64
	nextID  uint64
	closed  bool

	// ReverseRequests receives server-to-client requests (e.g.
	// workspace/applyEdit, window/showMessageRequest,
	// workspace/configuration) for the runtime to handle and answer.
	ReverseRequests chan ReverseRequest
	Notifications   chan Notification
}

// ReverseRequest is a request the server sent to us.
type ReverseRequest struct {
	ID      ID
	Method  string
	Params  json.RawMessage
	Respond func(result any, errObj *Error)
}

// NewClient wraps an already-spawned server's pipes.
func NewClient(t *Transport, encoding OffsetEncoding) *Client {
	return &Client{
		transport:       t,
		encoding:        encoding,
		pending:         btree.NewG[*pendingEntry](32, func(a, b *pendingEntry) bool { return a.seq < b.seq }),
		byID:            map[string]*pendingEntry{},
		ReverseRequests: make(chan ReverseRequest, 16),
		Notifications:   make(chan Notification, 64),
	}
}

// Call sends a request and blocks until its response arrives or the
// client is closed. It is safe to call concurrently from multiple
// goroutines (the handlers coordinators each own their own in-flight
// request).
func (c *Client) Call(method string, params any) (json.RawMessage, error) {
	id := NumberID(atomic.AddUint64(&c.nextID, 1))
	req, err := NewRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	entry := &pendingEntry{id: id, method: method, resume: make(chan Response, 1)}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, &Error{Code: InternalError, Message: "client closed"}
	}
	c.seq++
	entry.seq = c.seq
	c.pending.ReplaceOrInsert(entry)
	c.byID[id.String()] = entry
	c.mu.Unlock()

	if err := c.transport.Write(req); err != nil {
		c.forget(id)
		return nil, err
	}

	resp := <-entry.resume
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// Notify sends a fire-and-forget notification.
func (c *Client) Notify(method string, params any) error {
	n, err := NewNotification(method, params)
	if err != nil {
		return err
	}
	return c.transport.Write(n)
}

func (c *Client) forget(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byID[id.String()]; ok {
		c.pending.Delete(e)
		delete(c.byID, id.String())
	}
}

// PendingCount reports how many requests are currently in flight, in
// send order (the btree's natural iteration order).
func (c *Client) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Len()
}

// Close fails every in-flight Call with an internal error and rejects
// future ones. Dispatch loops call it when the transport dies so no
// caller blocks on a response that can never arrive.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	var entries []*pendingEntry
	c.pending.Ascend(func(e *pendingEntry) bool {
		entries = append(entries, e)
		return true
	})
	c.pending.Clear(false)
	c.byID = map[string]*pendingEntry{}
	c.mu.Unlock()

	for _, e := range entries {
		e.resume <- Response{JSONRPC: Version, ID: e.id, Error: &Error{Code: InternalError, Message: "server connection closed"}}
	}
}

// Dispatch reads one message from the transport and routes it: a
// response wakes up the matching Call, a request is pushed onto
// ReverseRequests, and a notification onto Notifications. Callers run
// this in a loop on a dedicated goroutine.
func (c *Client) Dispatch() error {
	raw, err := c.transport.ReadMessage()
	if err != nil {
		return err
	}
	kind, err := Classify(raw)
	if err != nil {
		return err
	}
	switch kind {
	case KindResponse:
		var resp Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return err
		}
		c.mu.Lock()
		entry, ok := c.byID[resp.ID.String()]
		if ok {
			c.pending.Delete(entry)
			delete(c.byID, resp.ID.String())
		}
		c.mu.Unlock()
		if ok {
			entry.resume <- resp
		}
		return nil
	case KindRequest:
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		id := *req.ID
		c.ReverseRequests <- ReverseRequest{
			ID:     id,
			Method: req.Method,
			Params: req.Params,
			Respond: func(result any, errObj *Error) {
				resp := Response{JSONRPC: Version, ID: id}
				if errObj != nil {
					resp.Error = errObj
				} else {
					b, _ := json.Marshal(result)
					resp.Result = b
				}
				c.transport.Write(resp)
			},
		}
		return nil
	default:
		var note Notification
		if err := json.Unmarshal(raw, &note); err != nil {
			return err
		}
		c.Notifications <- note
		return nil
	}
}

// DocumentChangedError is returned by workspace-edit application when
// the edit's expected document version no longer matches the live
// document.
type DocumentChangedError struct {
	URI             string
	ExpectedVersion int
	ActualVersion   int
}

func (e *DocumentChangedError) Error() string {
	return fmt.Sprintf("lsp: document %s changed (expected version %d, got %d)", e.URI, e.ExpectedVersion, e.ActualVersion)
}
