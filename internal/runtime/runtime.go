// Package runtime implements the editor's event loop: a Msg/Cmd
// dispatch queue plus a small hook bus, the same shape as bubbletea's
// tea.Msg/tea.Cmd pair, generalized so riv's own handlers (LSP
// responses, debounced completion, file watch events, PTY output) all
// flow through one place instead of one big program.Update switch.
package runtime

import "sync"

// Msg is anything the loop can dispatch to handlers. Concrete message
// types live in the packages that produce them (handlers.CompletionMsg,
// terminal.OutputMsg, ...); runtime only moves them.
type Msg any

// Cmd is a deferred side effect that eventually produces a Msg (or nil,
// meaning "no message"). Handlers return Cmds instead of performing I/O
// inline so the loop controls all concurrency.
type Cmd func() Msg

// Batch runs every Cmd and merges their messages into one BatchMsg,
// mirroring tea.Batch's fan-out/fan-in shape.
func Batch(cmds ...Cmd) Cmd {
	live := make([]Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c != nil {
			live = append(live, c)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return func() Msg {
		out := make(BatchMsg, 0, len(live))
		var mu sync.Mutex
		var wg sync.WaitGroup
		wg.Add(len(live))
		for _, c := range live {
			c := c
			go func() {
				defer wg.Done()
				if m := c(); m != nil {
					mu.Lock()
					out = append(out, m)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		return out
	}
}

// BatchMsg carries the messages produced by a Batch's constituent Cmds.
type BatchMsg []Msg

// Handler processes one Msg, optionally returning a follow-up Cmd.
type Handler func(Msg) Cmd

// Loop is the dispatch queue: messages enqueued via Send are drained
// one at a time by Run, invoking every registered Handler and
// dispatching any Cmd each one returns.
type Loop struct {
	msgs     chan Msg
	handlers []Handler
	done     chan struct{}
}

// NewLoop creates a Loop with the given inbound buffer size.
func NewLoop(buffer int) *Loop {
	return &Loop{
		msgs: make(chan Msg, buffer),
		done: make(chan struct{}),
	}
}

// Use registers a handler. Handlers run in registration order for every
// message; a handler uninterested in a Msg type returns nil.
func (l *Loop) Use(h Handler) { l.handlers = append(l.handlers, h) }

// Send enqueues a message for the next Run iteration. Safe to call from
// any goroutine, including from within a Cmd.
func (l *Loop) Send(m Msg) {
	if m == nil {
		return
	}
	select {
	case l.msgs <- m:
	case <-l.done:
	}
}

// Dispatch runs a Cmd on its own goroutine and feeds its result back
// into the queue via Send.
func (l *Loop) Dispatch(c Cmd) {
	if c == nil {
		return
	}
	go func() {
		l.Send(c())
	}()
}

// Run drains the queue until Stop is called, flattening BatchMsg values
// into their constituents before handing them to handlers.
func (l *Loop) Run() {
	for {
		select {
		case m := <-l.msgs:
			l.deliver(m)
		case <-l.done:
			return
		}
	}
}

func (l *Loop) deliver(m Msg) {
	if batch, ok := m.(BatchMsg); ok {
		for _, inner := range batch {
			l.deliver(inner)
		}
		return
	}
	for _, h := range l.handlers {
		if cmd := h(m); cmd != nil {
			l.Dispatch(cmd)
		}
	}
}

// Stop shuts the loop down; Run returns once the current message, if
// any, finishes processing.
func (l *Loop) Stop() { close(l.done) }
