// Package handlers implements the debounced async coordinators:
// completion, inline completion (ghost text), signature help, and
// inlay hints. Each is a small state machine built on
// internal/runtime's DebounceState, merging responses from multiple
// language servers plus riv's own word-completion worker under a
// generation counter that makes stale responses cheap to detect and
// discard rather than truly cancel, wired through runtime.Loop the
// same way every other async source in riv is.
package handlers

import (
	"sort"
	"time"

	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/runtime"
)

// CompletionState names the coordinator's current phase.
type CompletionState int

const (
	CompletionIdle CompletionState = iota
	CompletionDebouncing
	CompletionInFlight
)

// Trigger describes what caused a completion request.
type Trigger struct {
	Cursor      int
	Doc         *document.Document
	Manual      bool
	TriggerChar bool
}

// Item is one completion candidate, already tagged with which provider
// produced it and that provider's send-order priority.
type Item struct {
	Provider   string
	Priority   int
	Label      string
	InsertText string
}

// Source is anything that can produce completion items for a trigger:
// an LSP client, the word-completion worker, or a path-completion job.
// Each implementation owns its own transport/IPC; the coordinator only
// needs this uniform shape.
type Source interface {
	Name() string
	Complete(doc *document.Document, cursor int) (items []Item, incomplete bool)
}

// CompletionMsg is dispatched back onto the runtime.Loop once a
// provider responds.
type CompletionMsg struct {
	Generation int
	Provider   string
	Items      []Item
	Incomplete bool
}

// CompletionCoordinator implements the Idle/Debouncing/InFlight machine
// and the "first response shows UI, 100ms grace window for stragglers"
// rule.
type CompletionCoordinator struct {
	loop     *runtime.Loop
	debounce *runtime.DebounceState
	sources  []Source

	State   CompletionState
	trigger Trigger

	merged         map[string][]Item // provider -> items, replaced in place
	incomplete     map[string]bool
	graceTimer     *time.Timer
	firstResponded bool
}

// NewCompletionCoordinator wires a coordinator onto loop.
func NewCompletionCoordinator(loop *runtime.Loop, sources []Source, debounceDelay time.Duration) *CompletionCoordinator {
	c := &CompletionCoordinator{
		loop:       loop,
		debounce:   runtime.NewDebounceState(debounceDelay),
		sources:    sources,
		merged:     map[string][]Item{},
		incomplete: map[string]bool{},
	}
	return c
}

// AutoTrigger starts (or restarts) the debounce timer unless an
// identical trigger is already in flight.
func (c *CompletionCoordinator) AutoTrigger(t Trigger) {
	if c.State == CompletionInFlight && c.trigger == t {
		return
	}
	c.trigger = t
	c.State = CompletionDebouncing
	c.debounce.Trigger(c.finishDebounce)
}

// TriggerChar cancels any in-flight work and restarts with a short
// 5ms timeout; trigger characters want near-immediate completion.
func (c *CompletionCoordinator) TriggerChar(t Trigger) {
	t.TriggerChar = true
	c.trigger = t
	c.State = CompletionDebouncing
	c.debounce.TriggerAfter(5*time.Millisecond, c.finishDebounce)
}

// ManualTrigger goes straight to InFlight, no debounce.
func (c *CompletionCoordinator) ManualTrigger(t Trigger) {
	t.Manual = true
	c.trigger = t
	c.State = CompletionInFlight
	c.dispatchAll(c.debounce.Bump())
}

// DeleteText cancels the pending/in-flight trigger if the cursor moved
// before the trigger's recorded position.
func (c *CompletionCoordinator) DeleteText(cursor int) {
	if cursor < c.trigger.Cursor {
		c.Cancel()
	}
}

// Cancel aborts any pending work and returns to Idle. Bumping the
// generation counter, rather than just stopping the timer, is what
// makes any response already in flight read as stale when it arrives.
func (c *CompletionCoordinator) Cancel() {
	c.debounce.Cancel()
	c.debounce.Bump()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
	c.State = CompletionIdle
	c.merged = map[string][]Item{}
	c.incomplete = map[string]bool{}
	c.firstResponded = false
}

func (c *CompletionCoordinator) finishDebounce(gen int) {
	c.State = CompletionInFlight
	c.dispatchAll(gen)
}

// dispatchAll fans a request out to every source in parallel, each as
// its own runtime.Cmd, so a slow server never blocks a fast one.
func (c *CompletionCoordinator) dispatchAll(gen int) {
	trigger := c.trigger
	doc, cursor := trigger.Doc, trigger.Cursor
	for _, src := range c.sources {
		src := src
		c.loop.Dispatch(func() runtime.Msg {
			items, incomplete := src.Complete(doc, cursor)
			return CompletionMsg{Generation: gen, Provider: src.Name(), Items: items, Incomplete: incomplete}
		})
	}
}

// HandleResponse merges one provider's response in place and calls
// onSettled synchronously with the merged set. The first response also
// starts a 100ms grace window, at whose end onSettled is called once
// more with whatever has merged by then.
func (c *CompletionCoordinator) HandleResponse(msg CompletionMsg, onSettled func([]Item)) {
	if c.debounce.Stale(msg.Generation) {
		return // a newer trigger superseded this request
	}
	c.merged[msg.Provider] = msg.Items
	c.incomplete[msg.Provider] = msg.Incomplete

	if !c.firstResponded {
		c.firstResponded = true
		c.graceTimer = time.AfterFunc(100*time.Millisecond, func() {
			onSettled(c.allItems())
		})
	}
	onSettled(c.allItems())
}

// allItems flattens the per-provider lists into one stable ordering:
// provider name, then each provider's own priority. Map iteration
// order must not leak into the UI.
func (c *CompletionCoordinator) allItems() []Item {
	providers := make([]string, 0, len(c.merged))
	for name := range c.merged {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	var out []Item
	for _, name := range providers {
		out = append(out, c.merged[name]...)
	}
	return out
}

// IncompleteProviders returns the providers that flagged their last
// response `incomplete`, so the next keystroke can re-request only
// those.
func (c *CompletionCoordinator) IncompleteProviders() []string {
	var out []string
	for name, inc := range c.incomplete {
		if inc {
			out = append(out, name)
		}
	}
	return out
}
