// Package dap implements a Debug Adapter Protocol client: the same
// Content-Length JSON framing LSP uses (DAP borrowed the wire format),
// a sequence-numbered request/response table, and the stopped/
// continued/breakpoint/initialized event state machine a debug UI
// needs to track. Per-thread stack-frame/thread-state maps and
// capabilities gating are plain maps guarded by a mutex, and the
// package reuses internal/lsp's Transport type for wire framing since
// both protocols frame messages identically.
package dap

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rivedit/riv/internal/lsp"
)

// Capabilities is the subset of DebuggerCapabilities riv's debug UI
// gates behavior on.
type Capabilities struct {
	SupportsConfigurationDoneRequest bool `json:"supportsConfigurationDoneRequest"`
	SupportsConditionalBreakpoints   bool `json:"supportsConditionalBreakpoints"`
	SupportsStepBack                 bool `json:"supportsStepBack"`
	SupportsRestartRequest           bool `json:"supportsRestartRequest"`
}

// StackFrame mirrors the DAP StackFrame shape enough for a call-stack
// panel.
type StackFrame struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source struct {
		Path string `json:"path"`
	} `json:"source"`
}

// Breakpoint mirrors DAP's Breakpoint response shape.
type Breakpoint struct {
	ID       int    `json:"id"`
	Verified bool   `json:"verified"`
	Line     int    `json:"line"`
	Path     string `json:"path"`
}

// State is the client's coarse debug-session state machine.
type State int

const (
	StateDisconnected State = iota
	StateInitializing
	StateInitialized
	StateRunning
	StateStopped
	StateTerminated
)

// Client drives one debug adapter connection.
type Client struct {
	transport *lsp.Transport
	seq       uint64

	mu           sync.Mutex
	State        State
	Caps         *Capabilities
	StackFrames  map[int][]StackFrame // threadID -> frames
	ThreadStates map[int]string       // threadID -> "running"|"stopped"
	ThreadID     int
	ActiveFrame  int
	Breakpoints  []Breakpoint

	pending map[uint64]chan dapResponse

	// ReverseRequests carries DAP reverse requests like runInTerminal.
	ReverseRequests chan ReverseRequest
	Events          chan Event
}

// Event is a DAP event (stopped, continued, breakpoint, initialized, ...).
type Event struct {
	Event string
	Body  json.RawMessage
}

// ReverseRequest is an adapter-to-client request (e.g. runInTerminal).
type ReverseRequest struct {
	Seq     uint64
	Command string
	Args    json.RawMessage
	Respond func(body any, success bool, message string)
}

type dapMessage struct {
	Seq        uint64          `json:"seq"`
	Type       string          `json:"type"` // "request"|"response"|"event"
	Command    string          `json:"command,omitempty"`
	Event      string          `json:"event,omitempty"`
	Arguments  json.RawMessage `json:"arguments,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	RequestSeq uint64          `json:"request_seq,omitempty"`
	Success    bool            `json:"success,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type dapResponse struct {
	success bool
	message string
	body    json.RawMessage
}

// NewClient wraps an already-spawned debug adapter's pipes.
func NewClient(t *lsp.Transport) *Client {
	return &Client{
		transport:       t,
		State:           StateDisconnected,
		StackFrames:     map[int][]StackFrame{},
		ThreadStates:    map[int]string{},
		pending:         map[uint64]chan dapResponse{},
		ReverseRequests: make(chan ReverseRequest, 16),
		Events:          make(chan Event, 64),
	}
}

// Request sends a DAP request and blocks for its response body.
func (c *Client) Request(command string, args any) (json.RawMessage, error) {
	seq := atomic.AddUint64(&c.seq, 1)
	argBytes, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	msg := dapMessage{Seq: seq, Type: "request", Command: command, Arguments: argBytes}

	resume := make(chan dapResponse, 1)
	c.mu.Lock()
	c.pending[seq] = resume
	c.mu.Unlock()

	if err := c.transport.Write(msg); err != nil {
		return nil, err
	}
	resp := <-resume
	if !resp.success {
		return nil, fmt.Errorf("dap: %s failed: %s", command, resp.message)
	}
	return resp.body, nil
}

// Dispatch reads and routes one message: responses wake Request
// callers, events update session state and are republished on Events,
// and reverse requests go to ReverseRequests.
func (c *Client) Dispatch() error {
	raw, err := c.transport.ReadMessage()
	if err != nil {
		return err
	}
	var msg dapMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}
	switch msg.Type {
	case "response":
		c.mu.Lock()
		ch, ok := c.pending[msg.RequestSeq]
		delete(c.pending, msg.RequestSeq)
		c.mu.Unlock()
		if ok {
			ch <- dapResponse{success: msg.Success, message: msg.Message, body: msg.Body}
		}
	case "event":
		c.handleEvent(msg.Event, msg.Body)
		c.Events <- Event{Event: msg.Event, Body: msg.Body}
	case "request":
		c.ReverseRequests <- ReverseRequest{
			Seq:     msg.Seq,
			Command: msg.Command,
			Args:    msg.Arguments,
			Respond: func(body any, success bool, message string) {
				b, _ := json.Marshal(body)
				resp := dapMessage{
					Type: "response", RequestSeq: msg.Seq, Command: msg.Command,
					Success: success, Message: message, Body: b,
				}
				c.transport.Write(resp)
			},
		}
	}
	return nil
}

// handleEvent folds the events a debug UI needs into session state.
func (c *Client) handleEvent(event string, body json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch event {
	case "initialized":
		c.State = StateInitialized
	case "stopped":
		var b struct {
			ThreadID int `json:"threadId"`
			Reason   string
		}
		json.Unmarshal(body, &b)
		c.State = StateStopped
		c.ThreadID = b.ThreadID
		c.ThreadStates[b.ThreadID] = "stopped"
	case "continued":
		var b struct {
			ThreadID int `json:"threadId"`
		}
		json.Unmarshal(body, &b)
		c.State = StateRunning
		c.ThreadStates[b.ThreadID] = "running"
		delete(c.StackFrames, b.ThreadID)
	case "breakpoint":
		var b struct {
			Reason     string     `json:"reason"`
			Breakpoint Breakpoint `json:"breakpoint"`
		}
		json.Unmarshal(body, &b)
		if b.Reason == "removed" {
			for i, existing := range c.Breakpoints {
				if existing.ID == b.Breakpoint.ID {
					c.Breakpoints = append(c.Breakpoints[:i], c.Breakpoints[i+1:]...)
					break
				}
			}
			return
		}
		for i, existing := range c.Breakpoints {
			if existing.ID == b.Breakpoint.ID {
				c.Breakpoints[i] = b.Breakpoint
				return
			}
		}
		c.Breakpoints = append(c.Breakpoints, b.Breakpoint)
	case "terminated", "exited":
		c.State = StateTerminated
	}
}

// ResendBreakpoints re-sends every known breakpoint grouped by source
// file, then configurationDone. The Initialized event handler calls it
// so adapters observing the standard configuration sequence receive
// the full set that existed before this session started.
func (c *Client) ResendBreakpoints() error {
	c.mu.Lock()
	byPath := map[string][]map[string]any{}
	for _, bp := range c.Breakpoints {
		byPath[bp.Path] = append(byPath[bp.Path], map[string]any{"line": bp.Line})
	}
	caps := c.Caps
	c.mu.Unlock()

	for path, bps := range byPath {
		if _, err := c.Request("setBreakpoints", map[string]any{
			"source":      map[string]any{"path": path},
			"breakpoints": bps,
		}); err != nil {
			return err
		}
	}
	if caps == nil || caps.SupportsConfigurationDoneRequest {
		_, err := c.Request("configurationDone", map[string]any{})
		return err
	}
	return nil
}

// RefreshStoppedState fetches the thread list and the stopped thread's
// stack trace, returning the top frame so the UI can jump to its
// source. Runs blocking requests; call off the main task.
func (c *Client) RefreshStoppedState(threadID int) (StackFrame, bool) {
	if body, err := c.Request("threads", map[string]any{}); err == nil {
		var r struct {
			Threads []struct {
				ID int `json:"id"`
			} `json:"threads"`
		}
		if json.Unmarshal(body, &r) == nil {
			c.mu.Lock()
			for _, t := range r.Threads {
				if _, ok := c.ThreadStates[t.ID]; !ok {
					c.ThreadStates[t.ID] = "running"
				}
			}
			c.mu.Unlock()
		}
	}

	body, err := c.Request("stackTrace", map[string]any{"threadId": threadID})
	if err != nil {
		return StackFrame{}, false
	}
	var r struct {
		StackFrames []StackFrame `json:"stackFrames"`
	}
	if err := json.Unmarshal(body, &r); err != nil || len(r.StackFrames) == 0 {
		return StackFrame{}, false
	}
	c.SetStackFrames(threadID, r.StackFrames)
	return r.StackFrames[0], true
}

// SetStackFrames records the frames for a thread (from a stackTrace
// response), used so the UI doesn't need to keep its own copy.
func (c *Client) SetStackFrames(threadID int, frames []StackFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StackFrames[threadID] = frames
	c.ActiveFrame = 0
}

// CurrentState returns the client's session state under lock.
func (c *Client) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.State
}
